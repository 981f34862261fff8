package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"simplemdm/internal/api"
	"simplemdm/internal/domain"
)

// fakeMDM serves paged /devices and friends and checks basic auth.
func fakeMDM(t *testing.T, devices int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/devices", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		after, _ := strconv.Atoi(r.URL.Query().Get("starting_after"))
		if limit == 0 {
			limit = 100
		}
		var data []map[string]any
		for id := after + 1; id <= devices && len(data) < limit; id++ {
			data = append(data, map[string]any{
				"id":         id,
				"attributes": map[string]any{"device_name": fmt.Sprintf("dev-%d", id)},
			})
		}
		last := after + len(data)
		writeJSON(w, map[string]any{"data": data, "has_more": last < devices})
	})
	mux.HandleFunc("/devices/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{
			"id": 7,
			"attributes": map[string]any{
				"device_name":               "Mike's iPhone",
				"available_device_capacity": 24.5,
				"is_cloud_backup_enabled":   true,
			},
		}})
	})
	mux.HandleFunc("/devices/7/custom_attribute_values", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": []any{
			map[string]any{"id": "username", "attributes": map[string]any{"value": "mike@example.com"}},
		}})
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "good-key" || pass != "" {
			http.Error(w, `{"errors":[{"title":"api key is invalid"}]}`, http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestListDevices_FollowsPages(t *testing.T) {
	srv := fakeMDM(t, 250)
	c := api.New(srv.URL, "good-key", srv.Client())

	devs, err := c.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devs) != 250 {
		t.Fatalf("got %d devices, want 250", len(devs))
	}
	if devs[0].ID != "1" || devs[249].ID != "250" {
		t.Fatalf("ids %s..%s", devs[0].ID, devs[249].ID)
	}
	if devs[100].Attributes.DeviceName != "dev-101" {
		t.Fatalf("device_name = %q", devs[100].Attributes.DeviceName)
	}
}

func TestGetDevice_DecodesAttributes(t *testing.T) {
	srv := fakeMDM(t, 0)
	c := api.New(srv.URL+"/", "good-key", srv.Client())

	d, err := c.GetDevice(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetDevice: %v", err)
	}
	a := d.Attributes
	if a.DeviceName != "Mike's iPhone" || a.AvailableDeviceCapacity == nil || *a.AvailableDeviceCapacity != 24.5 {
		t.Fatalf("attributes = %+v", a)
	}
	if a.IsCloudBackupEnabled == nil || !*a.IsCloudBackupEnabled {
		t.Fatal("is_cloud_backup_enabled not decoded")
	}
	if a.OSVersion != "" || a.SerialNumber != "" {
		t.Fatal("missing fields should stay empty")
	}
}

func TestListCustomAttributeValues(t *testing.T) {
	srv := fakeMDM(t, 0)
	c := api.New(srv.URL, "good-key", srv.Client())

	vals, err := c.ListCustomAttributeValues(context.Background(), "7")
	if err != nil {
		t.Fatalf("ListCustomAttributeValues: %v", err)
	}
	if len(vals) != 1 || vals[0].ID != domain.UsernameAttribute || vals[0].Attributes.Value != "mike@example.com" {
		t.Fatalf("values = %+v", vals)
	}
}

func TestUnauthorized(t *testing.T) {
	srv := fakeMDM(t, 3)
	c := api.New(srv.URL, "bad-key", srv.Client())

	_, err := c.ListDevices(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	var ae *api.Error
	if !errors.As(err, &ae) || ae.StatusCode != http.StatusUnauthorized || ae.Path != "/devices" {
		t.Fatalf("want *api.Error for 401 /devices, got %#v", err)
	}
}

func TestNotFound_IsNotUnauthorized(t *testing.T) {
	srv := fakeMDM(t, 0)
	c := api.New(srv.URL, "good-key", srv.Client())

	_, err := c.GetDevice(context.Background(), "999")
	var ae *api.Error
	if !errors.As(err, &ae) || ae.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 *api.Error, got %v", err)
	}
	if errors.Is(err, api.ErrUnauthorized) {
		t.Fatal("404 must not match ErrUnauthorized")
	}
}

func TestListLogs_RespectsLimit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		after, _ := strconv.Atoi(r.URL.Query().Get("starting_after"))
		var data []map[string]any
		for i := after + 1; i <= after+100; i++ {
			data = append(data, map[string]any{
				"id":         strconv.Itoa(i),
				"attributes": map[string]any{"namespace": "device", "event_type": "enrolled", "level": 1},
			})
		}
		writeJSON(w, map[string]any{"data": data, "has_more": true})
	}))
	defer srv.Close()
	c := api.New(srv.URL, "k", srv.Client())

	logs, err := c.ListLogs(context.Background(), 150)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 150 || calls != 2 {
		t.Fatalf("got %d logs in %d calls", len(logs), calls)
	}
	if logs[0].Attributes.EventType != "enrolled" {
		t.Fatalf("entry = %+v", logs[0])
	}
}

func TestCancelledContext(t *testing.T) {
	srv := fakeMDM(t, 1)
	c := api.New(srv.URL, "good-key", srv.Client())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.ListDevices(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
