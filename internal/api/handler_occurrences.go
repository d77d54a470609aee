package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"maintplan-backend/internal/model"
)

const dateLayout = "2006-01-02"

// occurrenceResponse is the flattened structure for occurrence reads. The
// equipment display fields are a read-side join; they are not part of the
// stored occurrence.
type occurrenceResponse struct {
	ID                   string  `json:"id"`
	EquipmentID          int64   `json:"equipment_id"`
	EquipmentCode        string  `json:"equipment_code,omitempty"`
	EquipmentDescription string  `json:"equipment_description,omitempty"`
	EquipmentCategory    string  `json:"equipment_category,omitempty"`
	Frequency            string  `json:"frequency"`
	Year                 int     `json:"year"`
	ScheduledDate        string  `json:"scheduled_date"`
	Status               string  `json:"status"`
	CompletedDate        *string `json:"completed_date"`
	CompletedBy          *string `json:"completed_by"`
	Description          string  `json:"description,omitempty"`
	Notes                string  `json:"notes,omitempty"`
}

func newOccurrenceResponse(occ model.MaintenanceOccurrence) occurrenceResponse {
	resp := occurrenceResponse{
		ID:                   occ.ID,
		EquipmentID:          occ.EquipmentID,
		EquipmentCode:        occ.Equipment.Code,
		EquipmentDescription: occ.Equipment.Description,
		EquipmentCategory:    occ.Equipment.Category,
		Frequency:            string(occ.Frequency),
		Year:                 occ.Year,
		ScheduledDate:        occ.ScheduledDate.Format(dateLayout),
		Status:               string(occ.Status),
		CompletedBy:          occ.CompletedBy,
		Description:          occ.Description,
		Notes:                occ.Notes,
	}
	if occ.CompletedDate != nil {
		d := occ.CompletedDate.Format(dateLayout)
		resp.CompletedDate = &d
	}
	return resp
}

func occurrenceResponses(occs []model.MaintenanceOccurrence) []occurrenceResponse {
	resp := make([]occurrenceResponse, len(occs))
	for i, occ := range occs {
		resp[i] = newOccurrenceResponse(occ)
	}
	return resp
}

// GetFacilityOccurrences handles GET /api/facilities/{facility_id}/occurrences?year=YYYY.
func (h *Handler) GetFacilityOccurrences(c *gin.Context) {
	facilityID, err := strconv.ParseInt(c.Param("facility_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid facility ID"})
		return
	}
	year, ok := yearQuery(c)
	if !ok {
		return
	}

	occs, err := h.planner.ListFacilityYear(c.Request.Context(), facilityID, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, occurrenceResponses(occs))
}

// GetEquipmentOccurrences handles GET /api/equipment/{equipment_id}/occurrences?year=YYYY.
func (h *Handler) GetEquipmentOccurrences(c *gin.Context) {
	equipmentID, err := strconv.ParseInt(c.Param("equipment_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid equipment ID"})
		return
	}
	year, ok := yearQuery(c)
	if !ok {
		return
	}

	occs, err := h.planner.ListEquipmentYear(c.Request.Context(), equipmentID, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, occurrenceResponses(occs))
}

// GetOccurrence handles GET /api/occurrences/{id}.
func (h *Handler) GetOccurrence(c *gin.Context) {
	occ, err := h.planner.GetOccurrence(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOccurrenceResponse(occ))
}

type completeRequest struct {
	CompletedBy   string  `json:"completed_by" binding:"required"`
	CompletedDate *string `json:"completed_date"` // YYYY-MM-DD, defaults to today
}

// CompleteOccurrence handles POST /api/occurrences/{id}/complete.
func (h *Handler) CompleteOccurrence(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var completedDate *time.Time
	if req.CompletedDate != nil {
		d, err := time.Parse(dateLayout, *req.CompletedDate)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid completed_date, use YYYY-MM-DD"})
			return
		}
		completedDate = &d
	}

	occ, err := h.planner.Complete(c.Request.Context(), c.Param("id"), req.CompletedBy, completedDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOccurrenceResponse(occ))
}

// UncompleteOccurrence handles POST /api/occurrences/{id}/uncomplete.
func (h *Handler) UncompleteOccurrence(c *gin.Context) {
	occ, err := h.planner.Uncomplete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOccurrenceResponse(occ))
}

// yearQuery reads the ?year= parameter, defaulting to the current year.
func yearQuery(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().UTC().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, false
	}
	return year, true
}
