package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/menu-api/database"
	"github.com/yeremiapane/menu-api/models"
	"github.com/yeremiapane/menu-api/utils"
	"gorm.io/gorm"
)

// ErrItemNotFound is returned when a delete targets an id that does not exist.
var ErrItemNotFound = errors.New("menu item not found")

const itemNotFoundDetail = "Item not found"

// likeEscaper makes %, _ and the escape character itself match literally.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type MenuController struct {
	Sessions database.SessionProvider
}

func NewMenuController(sessions database.SessionProvider) *MenuController {
	return &MenuController{Sessions: sessions}
}

// ListMenu returns every item ordered by category.
func (mc *MenuController) ListMenu(c *gin.Context) {
	items := []models.MenuItem{}
	err := mc.Sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		return tx.Order("category ASC").Order("id ASC").Find(&items).Error
	})
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateMenuItem validates the body and inserts a new item.
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var body models.MenuItemCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondValidation(c, utils.LocBody, err)
		return
	}

	item := body.MenuItem()
	err := mc.Sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		return tx.Create(&item).Error
	})
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("Menu item created: id=%d name=%q", item.ID, item.Name)
	c.JSON(http.StatusCreated, item)
}

// DeleteMenuItem removes the item named by the item_id path parameter.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	// Non-positive ids are valid integers that never match a row.
	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		utils.RespondDetail(c, http.StatusUnprocessableEntity,
			utils.FieldDetail(utils.LocPath, "item_id", "must be a valid integer", "int_parsing"))
		return
	}

	err = mc.Sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		result := tx.Delete(&models.MenuItem{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return nil
	})
	switch {
	case errors.Is(err, ErrItemNotFound):
		utils.RespondDetail(c, http.StatusNotFound, itemNotFoundDetail)
		return
	case err != nil:
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("Menu item deleted: id=%d", id)
	c.Status(http.StatusNoContent)
}

// SearchMenu matches the query against item names, ignoring case.
func (mc *MenuController) SearchMenu(c *gin.Context) {
	var params models.MenuSearch
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondValidation(c, utils.LocQuery, err)
		return
	}

	// SQLite's LOWER folds ASCII only; MySQL folds per the column collation.
	pattern := "%" + likeEscaper.Replace(strings.ToLower(params.Query)) + "%"
	items := []models.MenuItem{}
	err := mc.Sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		return tx.Where("LOWER(name) LIKE ? ESCAPE '!'", pattern).Order("id ASC").Find(&items).Error
	})
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
