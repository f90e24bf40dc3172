package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sameera474/buildvault-backend/internal/models"
	"github.com/sameera474/buildvault-backend/internal/rbac"
)

func TestUpdateReport_RejectsWorkflowFields(t *testing.T) {
	setGinTestMode()

	h := NewHandler(nil, nil, nil, nil)
	r := gin.New()
	r.Use(withProfile(&models.Profile{Role: string(rbac.RoleTechnician), CompanyID: "co-1"}))
	r.PUT("/reports/:report_id", h.UpdateReport)

	bodies := []string{
		`{"status":"approved"}`,
		`{"compliance_status":"pass"}`,
		`{"approved_by":"someone"}`,
		`{"approved_at":"2026-01-01T00:00:00Z"}`,
		`{"test_data":{}, "status":"approved"}`,
	}
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPut, "/reports/r1", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
		assert.Contains(t, w.Body.String(), "submit/approve/reject/reopen", "body %s", body)
	}
}

func TestDecisionNotice_ReadsAsPastTense(t *testing.T) {
	assert.Equal(t, "BuildVault: report R-042 was approved.",
		decisionNotice("R-042", string(models.ReportApproved)))
	assert.Equal(t, "BuildVault: report R-042 was rejected.",
		decisionNotice("R-042", string(models.ReportRejected)))
}

func TestUpdateReport_RejectsMalformedBody(t *testing.T) {
	setGinTestMode()

	h := NewHandler(nil, nil, nil, nil)
	r := gin.New()
	r.Use(withProfile(&models.Profile{Role: string(rbac.RoleTechnician), CompanyID: "co-1"}))
	r.PUT("/reports/:report_id", h.UpdateReport)

	req := httptest.NewRequest(http.MethodPut, "/reports/r1", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
