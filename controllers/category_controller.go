package controllers

import (
	"locationsguard/dto"
	"locationsguard/response"
	"locationsguard/services"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	Categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) CategoryController {
	return CategoryController{Categories: categories}
}

func (cc CategoryController) GetCategories(c *gin.Context) {
	categories, err := cc.Categories.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, categories)
}

func (cc CategoryController) GetCategoryByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	category, err := cc.Categories.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, category)
}

func (cc CategoryController) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := cc.Categories.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, category)
}

func (cc CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := cc.Categories.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, category)
}

func (cc CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := cc.Categories.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
