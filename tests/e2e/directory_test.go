package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type listResponse struct {
	Items []struct {
		ID          int64  `json:"id"`
		CompanyName string `json:"company_name"`
		SectorID    int64  `json:"sector_id"`
		Visits      int64  `json:"visits"`
	} `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TestDirectoryBrowsing walks the public listing, detail and analytics endpoints
func TestDirectoryBrowsing(t *testing.T) {
	baseURL := getBaseURL(t)
	client := &http.Client{Timeout: 30 * time.Second}

	var sectors []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	t.Run("ListSectors", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/v1/sectors")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
		}
		var list struct {
			Sectors []struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			} `json:"sectors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("Failed to decode sectors: %v", err)
		}
		sectors = list.Sectors
		if len(sectors) == 0 {
			t.Skip("No sectors in the target deployment")
		}
	})

	var first int64
	t.Run("ListMSMEsBySector", func(t *testing.T) {
		if len(sectors) == 0 {
			t.Skip("No sectors loaded")
		}
		url := fmt.Sprintf("%s/v1/msmes?sectors=%d&sort=company_name&dir=asc", baseURL, sectors[0].ID)
		resp, err := client.Get(url)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		var page listResponse
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			t.Fatalf("Failed to decode listing: %v", err)
		}
		for i, m := range page.Items {
			if m.SectorID != sectors[0].ID {
				t.Errorf("Item %d belongs to sector %d, expected %d", m.ID, m.SectorID, sectors[0].ID)
			}
			if i > 0 && strings.ToLower(page.Items[i-1].CompanyName) > strings.ToLower(m.CompanyName) {
				t.Errorf("Items not sorted by company name: %q before %q", page.Items[i-1].CompanyName, m.CompanyName)
			}
		}
		if len(page.Items) > 0 {
			first = page.Items[0].ID
		}
	})

	t.Run("RecordVisit", func(t *testing.T) {
		if first == 0 {
			t.Skip("No MSME to visit")
		}
		resp, err := client.Post(fmt.Sprintf("%s/v1/msmes/%d/visits", baseURL, first), "application/json", nil)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusAccepted {
			t.Errorf("Expected status 202, got %d", resp.StatusCode)
		}
	})

	t.Run("ExportCSV", func(t *testing.T) {
		if first == 0 {
			t.Skip("No MSME to export")
		}
		body, _ := json.Marshal(map[string][]int64{"ids": {first}})
		resp, err := client.Post(baseURL+"/v1/export/csv", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "msme_data.csv") {
			t.Errorf("Unexpected Content-Disposition %q", cd)
		}
		data, _ := io.ReadAll(resp.Body)
		if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 2 {
			t.Errorf("Expected header and one record, got %d lines", len(lines))
		}
	})

	t.Run("MissingMSME", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/v1/msmes/999999999")
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", resp.StatusCode)
		}
	})
}

// TestAdminWorkflow creates, renames and removes a sector through the super admin endpoints
func TestAdminWorkflow(t *testing.T) {
	baseURL := getBaseURL(t)
	token := getAdminToken(t)
	client := &http.Client{Timeout: 30 * time.Second}

	call := func(method, path string, payload interface{}) *http.Response {
		var body io.Reader
		if payload != nil {
			b, _ := json.Marshal(payload)
			body = bytes.NewReader(b)
		}
		req, err := http.NewRequest(method, baseURL+path, body)
		if err != nil {
			t.Fatalf("Failed to create request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		return resp
	}

	name := fmt.Sprintf("E2E Sector %d", time.Now().UnixNano())
	resp := call(http.MethodPost, "/v1/admin/sectors", map[string]string{"name": name})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 201, got %d. Body: %s", resp.StatusCode, string(body))
	}
	var sector struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sector); err != nil {
		t.Fatalf("Failed to decode sector: %v", err)
	}

	dup := call(http.MethodPost, "/v1/admin/sectors", map[string]string{"name": strings.ToUpper(name)})
	dup.Body.Close()
	if dup.StatusCode != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate sector, got %d", dup.StatusCode)
	}

	renamed := call(http.MethodPut, fmt.Sprintf("/v1/admin/sectors/%d", sector.ID), map[string]string{"name": name + " Renamed"})
	renamed.Body.Close()
	if renamed.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 on rename, got %d", renamed.StatusCode)
	}

	del := call(http.MethodDelete, fmt.Sprintf("/v1/admin/sectors/%d", sector.ID), nil)
	del.Body.Close()
	if del.StatusCode != http.StatusNoContent {
		t.Errorf("Expected status 204 on delete, got %d", del.StatusCode)
	}
}
