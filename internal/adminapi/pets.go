package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vetsoftlabs/vetstore/internal/domain"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
	"github.com/vetsoftlabs/vetstore/pkg/common"
)

func registerPetRoutes() {
	webserver.ApiGET("/pets", staffOnly(listPets))
	webserver.ApiGET("/pets/:id", staffOnly(getPet))
	webserver.ApiPOST("/pets", staffOnly(createPet))
	webserver.ApiPUT("/pets/:id", staffOnly(updatePet))
	webserver.ApiDELETE("/pets/:id", staffOnly(deletePet))
}

func listPets(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Pet{})
	if clientID := strings.TrimSpace(c.QueryParam("client_id")); clientID != "" {
		db = db.Where("client_id = ?", clientID)
	}
	if species := strings.TrimSpace(c.QueryParam("species")); species != "" {
		db = db.Where("species = ?", species)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pets", err.Error())
	}

	var pets []domain.Pet
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&pets).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pets", err.Error())
	}
	return paged(c, pets, total, page, pageSize)
}

func getPet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid pet ID", nil)
	}
	var pet domain.Pet
	if err := GetDB(c).Where("id = ?", id).First(&pet).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PET_NOT_FOUND", "Pet not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pet", err.Error())
	}
	return ok(c, pet)
}

type petPayload struct {
	ClientId  int64   `json:"client_id,string"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Breed     string  `json:"breed"`
	Sex       string  `json:"sex"`
	BirthDate string  `json:"birth_date"`
	WeightKg  float64 `json:"weight_kg"`
	Remark    string  `json:"remark"`
}

func createPet(c echo.Context) error {
	var payload petPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse pet parameters", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Pet name is required", nil)
	}
	if payload.ClientId == 0 {
		return fail(c, http.StatusBadRequest, "MISSING_CLIENT", "Owner client_id is required", nil)
	}
	var owner domain.Client
	if err := GetDB(c).Where("id = ?", payload.ClientId).First(&owner).Error; err != nil {
		return fail(c, http.StatusBadRequest, "UNKNOWN_CLIENT", "Owner client does not exist", nil)
	}

	pet := domain.Pet{
		ID:        common.UUIDint64(),
		ClientId:  payload.ClientId,
		Name:      payload.Name,
		Species:   payload.Species,
		Breed:     payload.Breed,
		Sex:       payload.Sex,
		WeightKg:  payload.WeightKg,
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if payload.BirthDate != "" {
		born, err := dateparse.ParseAny(payload.BirthDate)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse birth date", err.Error())
		}
		pet.BirthDate = &born
	}
	if err := GetDB(c).Create(&pet).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create pet", err.Error())
	}
	oplog(c, "pet.create", "created pet "+pet.Name)
	return ok(c, pet)
}

func updatePet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid pet ID", nil)
	}
	var payload petPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse pet parameters", nil)
	}
	var pet domain.Pet
	if err := GetDB(c).Where("id = ?", id).First(&pet).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PET_NOT_FOUND", "Pet not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pet", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Name != "" {
		updates["name"] = strings.TrimSpace(payload.Name)
	}
	if payload.Species != "" {
		updates["species"] = payload.Species
	}
	if payload.Breed != "" {
		updates["breed"] = payload.Breed
	}
	if payload.Sex != "" {
		updates["sex"] = payload.Sex
	}
	if payload.WeightKg > 0 {
		updates["weight_kg"] = payload.WeightKg
	}
	if payload.BirthDate != "" {
		born, err := dateparse.ParseAny(payload.BirthDate)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse birth date", err.Error())
		}
		updates["birth_date"] = born
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	updates["updated_at"] = time.Now()
	if err := GetDB(c).Model(&pet).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update pet", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&pet)
	return ok(c, pet)
}

func deletePet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid pet ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Pet{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete pet", err.Error())
	}
	oplog(c, "pet.delete", "deleted pet")
	return ok(c, map[string]interface{}{"id": id})
}
