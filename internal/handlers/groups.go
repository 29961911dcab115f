package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lojista/backoffice-service/internal/database"
)

// ProductGroupRequest represents the request for creating or updating a group
type ProductGroupRequest struct {
	Name       string  `json:"name" binding:"required" jsonschema:"required"`
	ProductIDs []int64 `json:"productIds" binding:"required,min=2" jsonschema:"required,minItems=2"`
}

// ListProductGroupsResponse represents the response for listing groups
type ListProductGroupsResponse struct {
	Groups []database.ProductGroup `json:"groups" jsonschema:"required"`
}

// ListProductGroups returns all product groups with their members
// @Summary List product groups
// @Description Returns every product group with its member product IDs
// @Tags groups
// @Produce json
// @Success 200 {object} ListProductGroupsResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/product-groups [get]
func ListProductGroups(c *gin.Context) {
	groups, err := database.ListProductGroups(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list product groups"})
		return
	}
	c.JSON(http.StatusOK, ListProductGroupsResponse{Groups: groups})
}

// CreateProductGroup creates a group of products tracked as one stock unit
// @Summary Create product group
// @Description Creates a group of at least two products whose stock is tracked together. A product can belong to at most one group.
// @Tags groups
// @Accept json
// @Produce json
// @Param request body ProductGroupRequest true "Group definition"
// @Success 201 {object} database.ProductGroup
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 409 {object} map[string]string "Product already grouped"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/product-groups [post]
func CreateProductGroup(c *gin.Context) {
	var req ProductGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := database.CreateProductGroup(c.Request.Context(), req.Name, req.ProductIDs)
	if err != nil {
		if errors.Is(err, database.ErrAlreadyGrouped) {
			c.JSON(http.StatusConflict, gin.H{"error": "A product already belongs to another group"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product group"})
		return
	}

	c.JSON(http.StatusCreated, group)
}

// UpdateProductGroup replaces a group's name and membership
// @Summary Update product group
// @Description Replaces the group's name and member set atomically
// @Tags groups
// @Accept json
// @Produce json
// @Param groupId path string true "Group ID"
// @Param request body ProductGroupRequest true "Group definition"
// @Success 200 {object} map[string]string "Updated"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 409 {object} map[string]string "Product already grouped"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/product-groups/{groupId} [put]
func UpdateProductGroup(c *gin.Context) {
	groupID := c.Param("groupId")

	var req ProductGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := database.UpdateProductGroup(c.Request.Context(), groupID, req.Name, req.ProductIDs)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, database.ErrAlreadyGrouped):
			c.JSON(http.StatusConflict, gin.H{"error": "A product already belongs to another group"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product group"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"groupId": groupID})
}

// DeleteProductGroup removes a group; its products go back to standalone
// stock tracking
// @Summary Delete product group
// @Description Deletes a product group and releases its members
// @Tags groups
// @Produce json
// @Param groupId path string true "Group ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/product-groups/{groupId} [delete]
func DeleteProductGroup(c *gin.Context) {
	groupID := c.Param("groupId")

	if err := database.DeleteProductGroup(c.Request.Context(), groupID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"groupId": groupID})
}
