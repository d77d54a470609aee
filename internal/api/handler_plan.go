package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GeneratePlan handles POST /api/facilities/{facility_id}/plan/{year}.
// It materializes the year's maintenance occurrences for every piece of
// equipment the facility owns. Safe to call repeatedly; already-present
// occurrences are skipped.
func (h *Handler) GeneratePlan(c *gin.Context) {
	facilityID, year, ok := planParams(c)
	if !ok {
		return
	}

	result, err := h.planner.GenerateYearPlan(c.Request.Context(), facilityID, year)
	if err != nil {
		respondError(c, err)
		return
	}

	// Per-equipment failures ride along with the successful count instead
	// of failing the request.
	c.JSON(http.StatusOK, result)
}

// ResetPlan handles DELETE /api/facilities/{facility_id}/plan/{year}.
// Destructive: removes the facility's occurrences for that year regardless
// of status, completed ones included.
func (h *Handler) ResetPlan(c *gin.Context) {
	facilityID, year, ok := planParams(c)
	if !ok {
		return
	}

	deleted, err := h.planner.ResetYearPlan(c.Request.Context(), facilityID, year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func planParams(c *gin.Context) (facilityID int64, year int, ok bool) {
	facilityID, err := strconv.ParseInt(c.Param("facility_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid facility ID"})
		return 0, 0, false
	}
	year, err = strconv.Atoi(c.Param("year"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, 0, false
	}
	return facilityID, year, true
}
