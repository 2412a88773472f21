//go:build api

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serviceURL = "http://localhost:8080"

// TestAPI_FullFlow runs the back-office surface end to end against a
// running service with an empty database.
func TestAPI_FullFlow(t *testing.T) {
	waitForService(t)

	var templateID float64

	// Step 1: Daily list requires a date
	t.Run("Step1_DailyListRequiresDate", func(t *testing.T) {
		t.Log("STEP 1: GET /api/daily-list without date")

		resp := get(t, serviceURL+"/api/daily-list")
		assert.Equal(t, 400, resp.StatusCode, "date is mandatory")

		var errorResp map[string]string
		decodeJSON(t, resp, &errorResp)
		t.Logf("    Result: HTTP 400, message=%q", errorResp["message"])
	})

	// Step 2: Daily list for an empty day
	t.Run("Step2_EmptyDailyList", func(t *testing.T) {
		t.Log("STEP 2: GET /api/daily-list?date=2026-09-01")

		resp := get(t, serviceURL+"/api/daily-list?date=2026-09-01")
		assert.Equal(t, 200, resp.StatusCode)

		var listResp map[string]interface{}
		decodeJSON(t, resp, &listResp)
		t.Logf("    Result: HTTP 200, tours=%v", listResp["tours"])
	})

	// Step 3: Create a consolidated template
	t.Run("Step3_CreateTemplate", func(t *testing.T) {
		t.Log("STEP 3: POST /api/content/consolidated-templates")

		templateReq := map[string]interface{}{
			"name":                  "Escort daily",
			"subject":               "Services {{date}}",
			"body":                  "Hello {{guide_name}},\n{{services_list}}",
			"service_item_template": "{{time}} {{tour_title}} ({{pax_count}} pax)",
			"template_type":         "escort_consolidated",
			"is_default":            true,
		}

		resp := post(t, serviceURL+"/api/content/consolidated-templates", templateReq)
		require.Equal(t, 201, resp.StatusCode)

		var created map[string]interface{}
		decodeJSON(t, resp, &created)
		templateID = created["id"].(float64)
		assert.Equal(t, "Escort daily", created["name"])
		assert.Equal(t, true, created["is_default"])

		t.Logf("    Result: HTTP 201, id=%v", templateID)
	})

	// Step 4: Unknown template type is rejected
	t.Run("Step4_RejectUnknownTemplateType", func(t *testing.T) {
		t.Log("STEP 4: POST /api/content/consolidated-templates with bad type")

		templateReq := map[string]interface{}{
			"name":          "Broken",
			"subject":       "s",
			"body":          "b",
			"template_type": "weird_type",
		}

		resp := post(t, serviceURL+"/api/content/consolidated-templates", templateReq)
		assert.Equal(t, 400, resp.StatusCode)
		t.Log("    Result: HTTP 400")
	})

	// Step 5: The created template is listed
	t.Run("Step5_ListTemplates", func(t *testing.T) {
		t.Log("STEP 5: GET /api/content/consolidated-templates")

		resp := get(t, serviceURL+"/api/content/consolidated-templates")
		require.Equal(t, 200, resp.StatusCode)

		var templates []map[string]interface{}
		decodeJSON(t, resp, &templates)
		require.Len(t, templates, 1)
		assert.Equal(t, "escort_consolidated", templates[0]["template_type"])
		t.Logf("    Result: HTTP 200, %d template(s)", len(templates))
	})

	// Step 6: Dispatch for a role without a consolidated template
	t.Run("Step6_DispatchWithoutTemplate", func(t *testing.T) {
		t.Log("STEP 6: POST /api/email/dispatch/headphone")

		dispatchReq := map[string]interface{}{
			"date": "2026-09-01",
		}

		resp := post(t, serviceURL+"/api/email/dispatch/headphone", dispatchReq)
		assert.Equal(t, 412, resp.StatusCode, "missing template blocks the run")

		var errorResp map[string]string
		decodeJSON(t, resp, &errorResp)
		t.Logf("    Result: HTTP 412, message=%q", errorResp["message"])
	})

	// Step 7: Unknown dispatch role
	t.Run("Step7_DispatchUnknownRole", func(t *testing.T) {
		t.Log("STEP 7: POST /api/email/dispatch/janitor")

		resp := post(t, serviceURL+"/api/email/dispatch/janitor", map[string]interface{}{"date": "2026-09-01"})
		assert.Equal(t, 400, resp.StatusCode)
		t.Log("    Result: HTTP 400")
	})

	// Step 8: Split creation needs an existing slot
	t.Run("Step8_SplitOnMissingSlot", func(t *testing.T) {
		t.Log("STEP 8: POST /api/time-slot-splits for unknown availability")

		splitReq := map[string]interface{}{
			"activity_availability_id": 999999,
			"split_name":               "Group A",
		}

		resp := post(t, serviceURL+"/api/time-slot-splits", splitReq)
		assert.Equal(t, 404, resp.StatusCode)
		t.Log("    Result: HTTP 404")
	})

	// Step 9: Empty email log for the day
	t.Run("Step9_EmailLogs", func(t *testing.T) {
		t.Log("STEP 9: GET /api/email/logs?date=2026-09-01")

		resp := get(t, serviceURL+"/api/email/logs?date=2026-09-01")
		assert.Equal(t, 200, resp.StatusCode)
		t.Log("    Result: HTTP 200")
	})

	// Step 10: Delete the template again
	t.Run("Step10_DeleteTemplate", func(t *testing.T) {
		t.Log("STEP 10: DELETE /api/content/consolidated-templates/:id")

		resp := del(t, fmt.Sprintf("%s/api/content/consolidated-templates/%.0f", serviceURL, templateID))
		assert.Equal(t, 200, resp.StatusCode)

		resp = del(t, fmt.Sprintf("%s/api/content/consolidated-templates/%.0f", serviceURL, templateID))
		assert.Equal(t, 404, resp.StatusCode, "second delete finds nothing")
		t.Log("    Result: HTTP 200 then 404")
	})
}

// Helper functions

func waitForService(t *testing.T) {
	t.Log("Waiting for service to be ready...")

	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := http.Get(serviceURL + "/health")
		if err == nil && resp.StatusCode == 200 {
			resp.Body.Close()
			t.Log("Service is ready")
			return
		}
		time.Sleep(1 * time.Second)
	}

	t.Fatal("Service did not become ready in time")
}

func get(t *testing.T, url string) *http.Response {
	resp, err := http.Get(url)
	require.NoError(t, err)
	return resp
}

func post(t *testing.T, url string, body interface{}) *http.Response {
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonBody))
	require.NoError(t, err)
	return resp
}

func del(t *testing.T, url string) *http.Response {
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, target interface{}) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(target)
	if err != nil && resp.StatusCode >= 400 {
		// For error responses, body might not be JSON
		return
	}
	require.NoError(t, err)
}

func TestMain(m *testing.M) {
	fmt.Println("Starting API tests...")
	fmt.Println("Make sure the service is running: make docker-up")
	fmt.Println("")

	code := m.Run()

	fmt.Println("")
	fmt.Println("API tests complete")
	os.Exit(code)
}
