package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Smoke test against a running cmd/server. ROOT_IDS lists the internal ids of the roots.
func main() {
	baseURL := os.Getenv("NAVIGATOR_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	rootIDs := os.Getenv("ROOT_IDS")
	if rootIDs == "" {
		fmt.Println("ROOT_IDS not set (comma separated internal ids)")
		os.Exit(2)
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	var nodes []map[string]interface{}
	for _, s := range strings.Split(rootIDs, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			fmt.Printf("invalid id %q: %v\n", s, err)
			os.Exit(2)
		}
		nodes = append(nodes, map[string]interface{}{"internal_id": id})
	}

	fmt.Println("1. Creating session...")
	var sess sessionView
	if !sendRequest("POST", baseURL+"/sessions", map[string]interface{}{"nodes": nodes}, http.StatusCreated, &sess) {
		fail("Create session")
	}
	fmt.Println("PASSED: Create session")
	base := baseURL + "/sessions/" + sess.SessionID
	root := sess.Records[0].RecordID

	fmt.Println("2. Expanding link summary...")
	if !sendRequest("POST", fmt.Sprintf("%s/records/%d/summary", base, root), nil, http.StatusOK, &sess) {
		fail("Expand link summary")
	}
	fmt.Println("PASSED: Expand link summary")

	if len(sess.Records[0].Chips) == 0 {
		fmt.Println("Root has no relationships; nothing more to check")
		return
	}
	chip := sess.Records[0].Chips[0]
	before := len(sess.Records)

	fmt.Printf("3. Showing %s %s...\n", chip.Direction, chip.Name)
	link := map[string]interface{}{"rel_name": chip.Name, "dir": chip.Direction, "count": chip.Count}
	if !sendRequest("POST", fmt.Sprintf("%s/records/%d/links", base, root), link, http.StatusOK, &sess) {
		fail("Show linked records")
	}
	fmt.Printf("PASSED: Show linked records (%d -> %d rows)\n", before, len(sess.Records))

	fmt.Println("4. Hiding them again...")
	if !sendRequest("POST", fmt.Sprintf("%s/records/%d/links", base, root), link, http.StatusOK, &sess) {
		fail("Hide linked records")
	}
	if len(sess.Records) != before {
		fmt.Printf("expected %d rows after hide, got %d\n", before, len(sess.Records))
		fail("Hide linked records")
	}
	fmt.Println("PASSED: Hide linked records")

	sendRequest("DELETE", base, nil, http.StatusNoContent, nil)
}

type sessionView struct {
	SessionID string `json:"session_id"`
	Records   []struct {
		RecordID int `json:"record_id"`
		Chips    []struct {
			Name      string `json:"name"`
			Direction string `json:"direction"`
			Count     int    `json:"count"`
		} `json:"chips"`
	} `json:"records"`
}

func fail(step string) {
	fmt.Printf("FAILED: %s\n", step)
	os.Exit(1)
}

func sendRequest(method, url string, payload interface{}, want int, out interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			fmt.Printf("Bad response body: %v\n", err)
			return false
		}
	}
	return true
}
