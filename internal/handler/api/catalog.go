package api

import (
	"net/http"
	"strconv"

	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler serves read-only slot counters and package coverage quotes.
type CatalogHandler struct {
	slots    queries.SlotQueries
	packages queries.PackageQueries
}

func NewCatalogHandler(slots queries.SlotQueries, packages queries.PackageQueries) *CatalogHandler {
	return &CatalogHandler{slots: slots, packages: packages}
}

// @Summary Get slot
// @Description Get slot counters including capacity held by live reservation locks
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /slots/{id} [get]
func (h *CatalogHandler) GetSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.slots.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to load slot")
		return
	}
	res, err := resdto.FromSlotView(view)
	if err != nil {
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeInternal, err, "Failed to render slot", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Quote package coverage
// @Description Advisory quote of how many units a package balance covers; re-checked at booking time
// @Tags packages
// @Produce json
// @Param subscriptionId path string true "Package subscription ID"
// @Param serviceId path string true "Service ID"
// @Param quantity query int true "Requested units"
// @Success 200 {object} resdto.CoverageResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /packages/{subscriptionId}/services/{serviceId}/coverage [get]
func (h *CatalogHandler) QuoteCoverage(c *gin.Context) {
	subscriptionID, err := uuid.Parse(c.Param("subscriptionId"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid subscription id", nil)
		return
	}
	serviceID, err := uuid.Parse(c.Param("serviceId"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid service id", nil)
		return
	}
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || quantity < 0 {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, errInvalidQuantity, "Invalid quantity", nil)
		return
	}

	view, err := h.packages.QuoteCoverage(c.Request.Context(), subscriptionID, serviceID, quantity)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to quote coverage")
		return
	}
	res, err := resdto.FromCoverageView(view)
	if err != nil {
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeInternal, err, "Failed to render coverage", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
