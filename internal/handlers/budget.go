package handlers

import (
	"errors"
	"net/http"

	sb "smart_budget"
	"smart_budget/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errLoadLedger = "failed to load budget data"
	errSaveLedger = "failed to save budget data"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// isClientError reports whether err is a validation failure the caller can fix.
func isClientError(err error) bool {
	return errors.Is(err, service.ErrInvalidMonthKey) ||
		errors.Is(err, service.ErrNegativeAmount) ||
		errors.Is(err, service.ErrCategoryExists) ||
		errors.Is(err, service.ErrCategoryNotFound) ||
		errors.Is(err, service.ErrEmptyCategoryName)
}

// Request DTO for saving a month.
type saveMonthRequest struct {
	Income   float64            `json:"income"`
	Expenses map[string]float64 `json:"expenses"`
	Debt     float64            `json:"debt"`
}

// @Summary      List recorded months
// @Tags         budget
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, months"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/budget/months [get]
// @Security     BearerAuth
func (h *Handler) listMonths(c *gin.Context) {
	months, err := h.services.ListMonths(c.Request.Context(), currentUser(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLedger, "budget_list_months_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(months), "months": months})
}

// @Summary      Get one month's record
// @Tags         budget
// @Produce      json
// @Param        month  path  string  true  "Month key (YYYY-MM)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/budget/months/{month} [get]
// @Security     BearerAuth
func (h *Handler) getMonth(c *gin.Context) {
	month := c.Param("month")
	rec, err := h.services.GetMonth(c.Request.Context(), currentUser(c), month)
	if err != nil {
		if isClientError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLedger, "budget_get_month_failed", err, "month", month)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": month, "record": rec})
}

// @Summary      Save one month's record
// @Description  Overwrites the month; expense keys outside the category list are kept as one-time expenses
// @Tags         budget
// @Accept       json
// @Produce      json
// @Param        month  path  string            true  "Month key (YYYY-MM)"
// @Param        body   body  saveMonthRequest  true  "Record"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/budget/months/{month} [put]
// @Security     BearerAuth
func (h *Handler) saveMonth(c *gin.Context) {
	month := c.Param("month")
	var req saveMonthRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	rec := sb.BudgetRecord{Income: req.Income, Expenses: req.Expenses, Debt: req.Debt}
	if err := h.services.SaveMonth(c.Request.Context(), currentUser(c), month, rec); err != nil {
		if isClientError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveLedger, "budget_save_month_failed", err, "month", month)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved", "month": month})
}

// @Summary      List categories
// @Tags         budget
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/budget/categories [get]
// @Security     BearerAuth
func (h *Handler) listCategories(c *gin.Context) {
	cats, err := h.services.Categories(c.Request.Context(), currentUser(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLedger, "budget_list_categories_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(cats), "categories": cats})
}

type addCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// @Summary      Add category
// @Tags         budget
// @Accept       json
// @Produce      json
// @Param        body  body  addCategoryRequest  true  "Category"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/budget/categories [post]
// @Security     BearerAuth
func (h *Handler) addCategory(c *gin.Context) {
	var req addCategoryRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.AddCategory(c.Request.Context(), currentUser(c), req.Name); err != nil {
		if isClientError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveLedger, "budget_add_category_failed", err, "name", req.Name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added", "name": req.Name})
}

// @Summary      Remove category
// @Description  Removes the category and scrubs it from every month
// @Tags         budget
// @Produce      json
// @Param        name  path  string  true  "Category name"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/budget/categories/{name} [delete]
// @Security     BearerAuth
func (h *Handler) removeCategory(c *gin.Context) {
	name := c.Param("name")
	if err := h.services.RemoveCategory(c.Request.Context(), currentUser(c), name); err != nil {
		if isClientError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveLedger, "budget_remove_category_failed", err, "name", name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed", "name": name})
}

// @Summary      Export budget document
// @Description  Returns the stored JSON document byte-identical to disk
// @Tags         budget
// @Produce      json
// @Success      200  {string}  string  "raw JSON document"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/budget/export [get]
// @Security     BearerAuth
func (h *Handler) exportLedger(c *gin.Context) {
	username := currentUser(c)
	b, err := h.services.Export(c.Request.Context(), username)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLedger, "budget_export_failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="budget_data_`+username+`.json"`)
	c.Data(http.StatusOK, "application/json", b)
}
