package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hostybee/affiliate_backend/models"
)

func TestCapPackages(t *testing.T) {
	catalog := []models.HostingPackage{
		{ID: primitive.NewObjectID(), Name: "Starter", SortOrder: 1},
		{ID: primitive.NewObjectID(), Name: "Business", SortOrder: 2},
		{ID: primitive.NewObjectID(), Name: "Enterprise", SortOrder: 3},
	}

	capped := capPackages(catalog, catalog[1].ID)
	assert.Len(t, capped, 2)
	assert.Equal(t, "Business", capped[1].Name)

	capped = capPackages(catalog, catalog[0].ID)
	assert.Len(t, capped, 1)
	assert.Equal(t, "Starter", capped[0].Name)

	// A cap pointing at a package no longer in the catalog leaves the
	// list untouched
	capped = capPackages(catalog, primitive.NewObjectID())
	assert.Len(t, capped, 3)
}
