package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordBody(name, bht string) map[string]interface{} {
	return map[string]interface{}{
		"patient": map[string]interface{}{
			"name":           name,
			"bht_no":         bht,
			"age":            58,
			"sex":            "Male",
			"admission_date": "2024-03-01",
		},
		"operation": map[string]interface{}{
			"surgeon":      "Dr Perera",
			"surgery_name": "TURP",
		},
		"prescriptions": []map[string]interface{}{
			{"drug_name": "Tamsulosin", "dose": "0.4mg"},
		},
		"investigations": []map[string]interface{}{
			{"name": "Hb", "value": "12.5"},
		},
	}
}

func TestCreatePatient(t *testing.T) {
	application, cleanup := setupTestDB(t)
	defer cleanup()
	fiberApp := setupTestApp(application)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Valid record",
			body:           newRecordBody("Nimal Perera", "BHT-1"),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Duplicate BHT number",
			body:           newRecordBody("Other Person", "BHT-1"),
			expectedStatus: http.StatusConflict,
			expectedError:  "BHT number already exists",
		},
		{
			name: "Missing name",
			body: map[string]interface{}{
				"patient": map[string]interface{}{"bht_no": "BHT-2"},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Validation failed",
		},
		{
			name: "Bad admission date",
			body: map[string]interface{}{
				"patient": map[string]interface{}{"name": "X", "admission_date": "01/03/2024"},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, fiberApp, http.MethodPost, "/api/patients", tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
			}
		})
	}
}

func TestPatientLifecycle(t *testing.T) {
	application, cleanup := setupTestDB(t)
	defer cleanup()
	fiberApp := setupTestApp(application)

	resp, body := doJSON(t, fiberApp, http.MethodPost, "/api/patients", newRecordBody("Kamal Silva", "BHT-9"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	record := body["record"].(map[string]interface{})
	patient := record["patient"].(map[string]interface{})
	id := int64(patient["id"].(float64))
	require.NotZero(t, id)

	t.Run("get", func(t *testing.T) {
		resp, body := doJSON(t, fiberApp, http.MethodGet, fmt.Sprintf("/api/patients/%d", id), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		record := body["record"].(map[string]interface{})
		assert.Equal(t, "Kamal Silva", record["patient"].(map[string]interface{})["name"])
		assert.Len(t, record["prescriptions"], 1)
		assert.Equal(t, "TURP", record["operation"].(map[string]interface{})["surgery_name"])
	})

	t.Run("search", func(t *testing.T) {
		resp, body := doJSON(t, fiberApp, http.MethodGet, "/api/patients?q=kamal", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["patients"], 1)

		resp, body = doJSON(t, fiberApp, http.MethodGet, "/api/patients", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["patients"], 1)

		resp, body = doJSON(t, fiberApp, http.MethodGet, "/api/patients?q=nobody", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["patients"], 0)
	})

	t.Run("update replaces lists", func(t *testing.T) {
		update := newRecordBody("Kamal Silva", "BHT-9")
		update["prescriptions"] = []map[string]interface{}{
			{"drug_name": "Finasteride"},
			{"drug_name": "Paracetamol"},
		}

		resp, _ := doJSON(t, fiberApp, http.MethodPut, fmt.Sprintf("/api/patients/%d", id), update)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		prescriptions, err := repoOf(application).GetPatientPrescriptions(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, prescriptions, 2)
		assert.Equal(t, "Finasteride", prescriptions[0].DrugName)
	})

	t.Run("update unknown patient", func(t *testing.T) {
		resp, _ := doJSON(t, fiberApp, http.MethodPut, "/api/patients/9999", newRecordBody("Ghost", "G-1"))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := doJSON(t, fiberApp, http.MethodGet, "/api/patients/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		resp, _ := doJSON(t, fiberApp, http.MethodDelete, fmt.Sprintf("/api/patients/%d", id), nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = doJSON(t, fiberApp, http.MethodDelete, fmt.Sprintf("/api/patients/%d", id), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = doJSON(t, fiberApp, http.MethodGet, fmt.Sprintf("/api/patients/%d", id), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	application, cleanup := setupTestDB(t)
	defer cleanup()
	fiberApp := setupTestApp(application)

	resp, body := doJSON(t, fiberApp, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "html", body["converter"])

	_, err := application.Repo.DB().Exec(`DROP TABLE investigations`)
	require.NoError(t, err)

	_, body = doJSON(t, fiberApp, http.MethodGet, "/health", nil)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, []interface{}{"investigations"}, body["missing_tables"])
}

func TestMissingTableReportsRepair(t *testing.T) {
	application, cleanup := setupTestDB(t)
	defer cleanup()
	fiberApp := setupTestApp(application)

	_, err := application.Repo.DB().Exec(`DROP TABLE op_variables`)
	require.NoError(t, err)

	resp, body := doJSON(t, fiberApp, http.MethodPost, "/api/patients", newRecordBody("Ruwan Jayasuriya", "BHT-77"))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Failed to save patient record: database schema incomplete, run repair", body["error"])
	assert.Contains(t, body["detail"], "op_variables")

	resp, body = doJSON(t, fiberApp, http.MethodGet, "/api/patients?q=Ruwan", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["patients"])
}
