package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maintplan-backend/internal/model"
	"maintplan-backend/internal/schedule"
)

// EquipmentResponse represents the API response for a single piece of
// equipment, with its active recurrence frequencies already derived.
type EquipmentResponse struct {
	ID          int64    `json:"id"`
	FacilityID  int64    `json:"facility_id"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Frequencies []string `json:"frequencies"`
}

// GetFacilityEquipment handles GET /api/facilities/{facility_id}/equipment.
// Master data is managed elsewhere; this is a read-only convenience for
// plan displays.
func (h *Handler) GetFacilityEquipment(c *gin.Context) {
	facilityID, err := strconv.ParseInt(c.Param("facility_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid facility ID"})
		return
	}

	equipment, err := h.store.ListEquipmentByFacility(c.Request.Context(), facilityID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve equipment"})
		return
	}

	responses := make([]EquipmentResponse, 0, len(equipment))
	for _, eq := range equipment {
		freqs := activeFrequencyNames(eq)
		responses = append(responses, EquipmentResponse{
			ID:          eq.ID,
			FacilityID:  eq.FacilityID,
			Code:        eq.Code,
			Description: eq.Description,
			Category:    eq.Category,
			Frequencies: freqs,
		})
	}
	c.JSON(http.StatusOK, responses)
}

func activeFrequencyNames(eq model.Equipment) []string {
	active := schedule.ActiveFrequencies(eq)
	names := make([]string, len(active))
	for i, f := range active {
		names[i] = string(f)
	}
	return names
}
