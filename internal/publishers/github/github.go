package github

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"confcollect/internal/logger"
	"confcollect/internal/model"
	"confcollect/internal/publishers"
)

type Publisher struct{}

type githubFileRequest struct {
	Message string `json:"message"`
	Content string `json:"content"` // base64 encoded file content
	Sha     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type githubFileResponse struct {
	Sha string `json:"sha"`
}

// Publish uploads the subscription payload to a file in a GitHub repo
// via the contents API. The existing file SHA is fetched first because
// the API rejects updates without it.
func (p *Publisher) Publish(records []model.Record, config map[string]interface{}) error {
	payload, err := publishers.GenerateSubscriptionPayload(records, config)
	if err != nil {
		return err
	}

	token, _ := config["token"].(string)
	owner, _ := config["owner"].(string)
	repo, _ := config["repo"].(string)
	path, _ := config["path"].(string)
	branch, _ := config["branch"].(string)
	msg, _ := config["message"].(string)

	apiBase, _ := config["api_url"].(string)
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	apiBase = strings.TrimRight(apiBase, "/")

	timeout := 30 * time.Second
	if t, ok := config["_timeout"].(time.Duration); ok {
		timeout = t
	}
	retries := 0
	if r, ok := config["_retries"].(int); ok {
		retries = r
	}

	if token == "" || owner == "" || repo == "" || path == "" {
		return fmt.Errorf("github publisher requires token, owner, repo, and path")
	}
	if msg == "" {
		msg = "Update proxy subscription"
	}

	path = strings.TrimPrefix(path, "/")
	apiURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s", apiBase, owner, repo, path)

	client := &http.Client{Timeout: timeout}
	if proxyStr, ok := config["_proxy_url"].(string); ok && proxyStr != "" {
		if u, err := url.Parse(proxyStr); err == nil {
			client.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
			logger.Log.Debugf("GitHub publisher using proxy: %s", proxyStr)
		}
	}

	var currentSha string
	var respGet *http.Response
	for i := 0; i <= retries; i++ {
		reqGet, _ := http.NewRequest("GET", apiURL, nil)
		reqGet.Header.Set("Authorization", "Bearer "+token)
		reqGet.Header.Set("Accept", "application/vnd.github.v3+json")
		if branch != "" {
			q := reqGet.URL.Query()
			q.Add("ref", branch)
			reqGet.URL.RawQuery = q.Encode()
		}

		logger.Log.Debugf("GitHub: fetching file info (attempt %d/%d)", i+1, retries+1)
		respGet, err = client.Do(reqGet)
		if err == nil && (respGet.StatusCode == 200 || respGet.StatusCode == 404) {
			break
		}
		if err == nil {
			respGet.Body.Close()
			err = fmt.Errorf("status %d", respGet.StatusCode)
		}
		if i < retries {
			time.Sleep(1 * time.Second)
		}
	}
	if err != nil {
		return fmt.Errorf("github fetch failed after retries: %w", err)
	}
	defer respGet.Body.Close()

	switch respGet.StatusCode {
	case 200:
		var existing githubFileResponse
		if err := json.NewDecoder(respGet.Body).Decode(&existing); err != nil {
			return fmt.Errorf("failed to parse github response: %w", err)
		}
		currentSha = existing.Sha
		logger.Log.Debugf("GitHub: file exists (SHA: %s), updating", currentSha)
	case 404:
		logger.Log.Debugf("GitHub: file not found, creating new")
	default:
		return fmt.Errorf("github unexpected status: %d", respGet.StatusCode)
	}

	reqBody := githubFileRequest{
		Message: msg,
		Content: base64.StdEncoding.EncodeToString([]byte(payload)),
		Sha:     currentSha,
		Branch:  branch,
	}
	jsonBody, _ := json.Marshal(reqBody)

	var respPut *http.Response
	for i := 0; i <= retries; i++ {
		reqPut, _ := http.NewRequest("PUT", apiURL, bytes.NewBuffer(jsonBody))
		reqPut.Header.Set("Authorization", "Bearer "+token)
		reqPut.Header.Set("Content-Type", "application/json")
		reqPut.Header.Set("Accept", "application/vnd.github.v3+json")

		logger.Log.Debugf("GitHub: uploading file (attempt %d/%d)", i+1, retries+1)
		respPut, err = client.Do(reqPut)
		if err == nil && respPut.StatusCode >= 200 && respPut.StatusCode < 300 {
			break
		}
		if err == nil {
			bodyBytes, _ := io.ReadAll(respPut.Body)
			respPut.Body.Close()
			err = fmt.Errorf("status %d: %s", respPut.StatusCode, string(bodyBytes))
		}
		if i < retries {
			time.Sleep(1 * time.Second)
		}
	}
	if err != nil {
		return fmt.Errorf("github upload failed after retries: %w", err)
	}
	defer respPut.Body.Close()

	return nil
}

func init() {
	publishers.Register("github", func() publishers.Publisher { return &Publisher{} })
}
