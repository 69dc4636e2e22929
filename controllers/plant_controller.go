package controllers

import (
	"net/http"

	"github.com/sohan0019/PlantNet/middleware"
	"github.com/sohan0019/PlantNet/models"
	"github.com/sohan0019/PlantNet/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlantController serves the plant catalog endpoints.
type PlantController struct {
	Plants repository.PlantRepository
	Users  repository.UserRepository
	Cache  *CacheManager
	Logger *zap.Logger
}

// CreatePlant stores a new listing for the authenticated seller.
func (pc *PlantController) CreatePlant(c *gin.Context) {
	var req models.CreatePlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, pc.Logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	email := middleware.GetEmail(c)
	seller := models.Seller{Email: email}
	if user, err := pc.Users.FindByEmail(c.Request.Context(), email); err == nil {
		seller.Name = user.Name
		seller.Image = user.Image
	}

	plant := &models.Plant{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Image:       req.Image,
		Seller:      seller,
	}

	id, err := pc.Plants.Create(c.Request.Context(), plant)
	if err != nil {
		respondError(c, pc.Logger, http.StatusInternalServerError, "failed to save plant", err)
		return
	}

	if pc.Cache != nil {
		pc.Cache.InvalidatePlant(c.Request.Context(), id)
	}

	pc.Logger.Info("Plant created", zap.String("plant_id", id), zap.String("seller", email))
	c.JSON(http.StatusCreated, gin.H{"insertedId": id})
}

// GetPlants lists the full catalog, served from cache when possible.
func (pc *PlantController) GetPlants(c *gin.Context) {
	if pc.Cache != nil {
		if plants, ok := pc.Cache.GetPlantList(c.Request.Context()); ok {
			c.JSON(http.StatusOK, plants)
			return
		}
	}

	plants, err := pc.Plants.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, pc.Logger, http.StatusInternalServerError, "failed to fetch plants", err)
		return
	}

	if pc.Cache != nil {
		pc.Cache.SetPlantListAsync(plants)
	}
	c.JSON(http.StatusOK, plants)
}

// GetPlantByID returns a single plant.
func (pc *PlantController) GetPlantByID(c *gin.Context) {
	id := c.Param("id")

	if pc.Cache != nil {
		if plant, ok := pc.Cache.GetPlant(c.Request.Context(), id); ok {
			c.JSON(http.StatusOK, plant)
			return
		}
	}

	plant, err := pc.Plants.FindByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			respondError(c, pc.Logger, http.StatusNotFound, "plant not found", nil)
			return
		}
		respondError(c, pc.Logger, http.StatusInternalServerError, "failed to fetch plant", err)
		return
	}

	if pc.Cache != nil {
		pc.Cache.SetPlantAsync(id, plant)
	}
	c.JSON(http.StatusOK, plant)
}

// GetMyInventory lists the authenticated seller's plants.
func (pc *PlantController) GetMyInventory(c *gin.Context) {
	email := middleware.GetEmail(c)
	plants, err := pc.Plants.FindBySellerEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, pc.Logger, http.StatusInternalServerError, "failed to fetch inventory", err)
		return
	}
	c.JSON(http.StatusOK, plants)
}
