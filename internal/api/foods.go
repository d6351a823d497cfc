package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"healthbite/backend/internal/order"
)

func (s *Server) handleIntelligentMenu(c *gin.Context) {
	result, err := s.menu.Intelligent(c.Request.Context(), subjectFrom(c))
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.Header("X-Default-Profile", strconv.FormatBool(result.DefaultProfile))
	c.JSON(http.StatusOK, MenuFromService(result))
}

func (s *Server) handleListFoods(c *gin.Context) {
	all, _ := strconv.ParseBool(c.Query("all"))
	rows, err := s.db.ListFoods(c.Request.Context(), !all)
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	dtos := make([]FoodDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, FoodFromModel(row))
	}
	c.JSON(http.StatusOK, dtos)
}

func (s *Server) handleGetFood(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	row, err := s.db.GetFood(c.Request.Context(), id)
	if err != nil {
		s.renderServiceError(c, fmt.Errorf("food %d: %w", id, err))
		return
	}
	c.JSON(http.StatusOK, FoodFromModel(*row))
}

func (s *Server) handleCreateFood(c *gin.Context) {
	var req FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	item, err := req.toCatalogEntry().ToFoodItem()
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.db.CreateFood(c.Request.Context(), &item); err != nil {
		s.renderServiceError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{"food_id": item.ID, "name": item.Name, subjectKey: subjectFrom(c)}).Info("food item created")
	c.JSON(http.StatusCreated, FoodFromModel(item))
}

func (s *Server) handleSetAvailability(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	if req.IsAvailable == nil {
		s.renderError(c, http.StatusBadRequest, errors.New("is_available is required"))
		return
	}
	row, err := s.db.SetFoodAvailability(c.Request.Context(), id, *req.IsAvailable)
	if err != nil {
		s.renderServiceError(c, fmt.Errorf("food %d: %w", id, err))
		return
	}
	c.JSON(http.StatusOK, FoodFromModel(*row))
}

func (s *Server) handlePlaceOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	placed, err := s.orders.Place(c.Request.Context(), subjectFrom(c), order.Request{
		FoodIDs:       req.Items,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, OrderFromModel(*placed))
}

func (s *Server) handleOrderHistory(c *gin.Context) {
	rows, err := s.orders.History(c.Request.Context(), subjectFrom(c))
	if err != nil {
		s.renderServiceError(c, err)
		return
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, OrderFromModel(row))
	}
	c.JSON(http.StatusOK, dtos)
}
