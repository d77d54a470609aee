package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"maintplan-backend/config"
	"maintplan-backend/internal/model"
	"maintplan-backend/internal/planner"
	"maintplan-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, name string) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(
		&model.Facility{},
		&model.Equipment{},
		&model.MaintenanceOccurrence{},
		&model.PushSubscription{},
	))

	s := store.NewGormStore(db)
	p := planner.New(s, &config.PlannerConfig{AnchorDay: 15, MinYear: 2000, MaxYear: 2100})

	// Generous rate limit so tests never trip it.
	cfg := &config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTLSeconds: 60}
	return NewRouter(s, p, nil, cfg), db
}

func seedEquipment(t *testing.T, db *gorm.DB, eq model.Equipment) {
	t.Helper()
	require.NoError(t, db.FirstOrCreate(&model.Facility{ID: eq.FacilityID, Name: fmt.Sprintf("Plant %d", eq.FacilityID)}).Error)
	require.NoError(t, db.Create(&eq).Error)
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGeneratePlanEndpoint(t *testing.T) {
	r, db := newTestRouter(t, "generate_plan")
	seedEquipment(t, db, model.Equipment{
		ID: 10, FacilityID: 1, Code: "AHU-01",
		CheckMonthly: "m", CheckQuarterly: "q", CheckBiannual: "b", CheckAnnual: "a",
	})

	w := doJSON(r, http.MethodPost, "/api/facilities/1/plan/2030", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp planner.GenerateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 19, resp.Generated)
	assert.Empty(t, resp.Failures)

	// A second call is a no-op, not an error.
	w = doJSON(r, http.MethodPost, "/api/facilities/1/plan/2030", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Generated)
}

func TestGeneratePlanEndpoint_BadParams(t *testing.T) {
	r, _ := newTestRouter(t, "generate_bad_params")

	w := doJSON(r, http.MethodPost, "/api/facilities/abc/plan/2030", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/facilities/1/plan/notayear", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeneratePlanEndpoint_YearOutOfRange(t *testing.T) {
	r, db := newTestRouter(t, "generate_year_range")
	seedEquipment(t, db, model.Equipment{ID: 10, FacilityID: 1, Code: "AHU-01", CheckAnnual: "a"})

	w := doJSON(r, http.MethodPost, "/api/facilities/1/plan/1999", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "year")
}

func TestResetPlanEndpoint(t *testing.T) {
	r, db := newTestRouter(t, "reset_plan")
	seedEquipment(t, db, model.Equipment{ID: 10, FacilityID: 1, Code: "AHU-01", CheckQuarterly: "q"})

	w := doJSON(r, http.MethodPost, "/api/facilities/1/plan/2030", "")
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/facilities/1/plan/2030", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp["deleted"])
}

func TestListFacilityOccurrences(t *testing.T) {
	r, db := newTestRouter(t, "list_facility")
	seedEquipment(t, db, model.Equipment{
		ID: 10, FacilityID: 1, Code: "AHU-01", Description: "air handler", Category: "HVAC",
		CheckAnnual: "full overhaul",
	})

	w := doJSON(r, http.MethodPost, "/api/facilities/1/plan/2030", "")
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/1/occurrences?year=2030", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []occurrenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "AHU-01", resp[0].EquipmentCode)
	assert.Equal(t, "air handler", resp[0].EquipmentDescription)
	assert.Equal(t, "annual", resp[0].Frequency)
	assert.Equal(t, "2030-07-15", resp[0].ScheduledDate)
	assert.Equal(t, "pending", resp[0].Status)
	assert.Equal(t, "full overhaul", resp[0].Description)
	assert.Nil(t, resp[0].CompletedDate)
}

func TestListFacilityOccurrences_InvalidYear(t *testing.T) {
	r, _ := newTestRouter(t, "list_invalid_year")

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/1/occurrences?year=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteUncompleteEndpoints(t *testing.T) {
	r, db := newTestRouter(t, "complete_endpoint")
	seedEquipment(t, db, model.Equipment{ID: 10, FacilityID: 1, Code: "GEN-01", CheckAnnual: "a"})

	w := doJSON(r, http.MethodPost, "/api/facilities/1/plan/2030", "")
	require.Equal(t, http.StatusOK, w.Code)

	var occ model.MaintenanceOccurrence
	require.NoError(t, db.First(&occ).Error)

	w = doJSON(r, http.MethodPost, "/api/occurrences/"+occ.ID+"/complete",
		`{"completed_by":"Operator A","completed_date":"2030-07-20"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp occurrenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.CompletedDate)
	assert.Equal(t, "2030-07-20", *resp.CompletedDate)
	require.NotNil(t, resp.CompletedBy)
	assert.Equal(t, "Operator A", *resp.CompletedBy)

	w = doJSON(r, http.MethodPost, "/api/occurrences/"+occ.ID+"/uncomplete", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)
	assert.Nil(t, resp.CompletedDate)
	assert.Nil(t, resp.CompletedBy)
}

func TestCompleteEndpoint_Validation(t *testing.T) {
	r, db := newTestRouter(t, "complete_validation")
	seedEquipment(t, db, model.Equipment{ID: 10, FacilityID: 1, Code: "GEN-01", CheckAnnual: "a"})

	w := doJSON(r, http.MethodPost, "/api/facilities/1/plan/2030", "")
	require.Equal(t, http.StatusOK, w.Code)
	var occ model.MaintenanceOccurrence
	require.NoError(t, db.First(&occ).Error)

	// Missing completed_by fails binding.
	w = doJSON(r, http.MethodPost, "/api/occurrences/"+occ.ID+"/complete", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Whitespace-only actor is rejected past binding.
	w = doJSON(r, http.MethodPost, "/api/occurrences/"+occ.ID+"/complete", `{"completed_by":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "completed_by")

	// Malformed date.
	w = doJSON(r, http.MethodPost, "/api/occurrences/"+occ.ID+"/complete",
		`{"completed_by":"Operator A","completed_date":"20-07-2030"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOccurrenceEndpoints_NotFound(t *testing.T) {
	r, _ := newTestRouter(t, "occurrence_not_found")

	req := httptest.NewRequest(http.MethodGet, "/api/occurrences/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/api/occurrences/missing/complete", `{"completed_by":"Operator A"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/api/occurrences/missing/uncomplete", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetFacilityEquipment(t *testing.T) {
	r, db := newTestRouter(t, "facility_equipment")
	seedEquipment(t, db, model.Equipment{
		ID: 10, FacilityID: 1, Code: "AHU-01", Description: "air handler", Category: "HVAC",
		CheckMonthly: "m", CheckAnnual: "a", CheckDaily: "d",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/1/equipment", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []EquipmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "AHU-01", resp[0].Code)
	assert.Equal(t, []string{"monthly", "annual"}, resp[0].Frequencies, "daily checks never enter the plan")
}

func TestVAPIDPublicKey_Unconfigured(t *testing.T) {
	r, _ := newTestRouter(t, "vapid_unconfigured")

	req := httptest.NewRequest(http.MethodGet, "/api/vapid_public_key", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
