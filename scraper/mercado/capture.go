package mercado

import (
	"encoding/json"
	"strings"
	"sync"

	"compra-agil-scraper/models"
	"compra-agil-scraper/utils"
)

// ResponseObserver receives every network response body the browser session
// intercepts. Implementations decide which URLs they care about.
type ResponseObserver interface {
	Observe(url string, body []byte)
}

// APICapture buffers the most recent valid listing API response. The fetch
// loop clears it before each navigation and reads it after the settle wait,
// so the buffer only ever holds the response of the in-flight page. The
// mutex covers the handoff from the browser's event goroutine.
type APICapture struct {
	mu      sync.Mutex
	logger  *utils.Logger
	current *models.APIResponse
}

// NewAPICapture creates a capture bound to the listing API route.
func NewAPICapture(logger *utils.Logger) *APICapture {
	return &APICapture{logger: logger}
}

// Observe decodes and validates a response body. Invalid bodies never
// replace an already captured response.
func (c *APICapture) Observe(url string, body []byte) {
	if !strings.Contains(url, APIRoute) {
		return
	}

	var resp models.APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to decode API response from %s: %v", url, err)
		return
	}
	if resp.Success == "" || resp.Payload == nil || resp.Payload.Results == nil {
		c.logger.Warn("API response with invalid structure from: %s", url)
		return
	}

	c.mu.Lock()
	c.current = &resp
	c.mu.Unlock()
	c.logger.Debug("API response captured (%d results)", len(resp.Payload.Results))
}

// HasResponse reports whether a response is currently buffered.
func (c *APICapture) HasResponse() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Current returns the buffered response, or nil.
func (c *APICapture) Current() *models.APIResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Results returns the result page of the buffered response, empty if none.
func (c *APICapture) Results() []models.Listing {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.Payload == nil {
		return nil
	}
	return c.current.Payload.Results
}

// Pagination returns the server-declared paging state, all zeros if no
// response is buffered.
func (c *APICapture) Pagination() models.PaginationMeta {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.Payload == nil {
		return models.PaginationMeta{}
	}
	p := c.current.Payload
	return models.PaginationMeta{
		ResultCount: p.ResultCount,
		PageCount:   p.PageCount,
		Page:        p.Page,
		PageSize:    p.PageSize,
	}
}

// Succeeded reports whether the buffered response carries the success flag.
func (c *APICapture) Succeeded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.current.Success == models.SuccessValue
}

// Clear resets the buffer. Must run before every navigation so a stale page
// can never be mistaken for the new one.
func (c *APICapture) Clear() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

type detailEnvelope struct {
	Success string          `json:"success"`
	Payload json.RawMessage `json:"payload"`
}

// DetailCapture buffers the ficha and history payloads of one detail-page
// visit. Same clear-before-navigate discipline as APICapture.
type DetailCapture struct {
	mu      sync.Mutex
	logger  *utils.Logger
	ficha   json.RawMessage
	history []json.RawMessage
}

// NewDetailCapture creates a capture for the ficha and historial endpoints.
func NewDetailCapture(logger *utils.Logger) *DetailCapture {
	return &DetailCapture{logger: logger}
}

// Observe picks up ficha and historial responses; everything else is ignored.
func (c *DetailCapture) Observe(url string, body []byte) {
	isFicha := strings.Contains(url, fichaRoute)
	isHistory := strings.Contains(url, historyRoute)
	if !isFicha && !isHistory {
		return
	}

	var env detailEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Error("Failed to decode detail response from %s: %v", url, err)
		return
	}
	if env.Success != models.SuccessValue {
		return
	}

	if isFicha {
		c.mu.Lock()
		c.ficha = env.Payload
		c.mu.Unlock()
		c.logger.Debug("Ficha captured")
		return
	}

	var events []json.RawMessage
	if err := json.Unmarshal(env.Payload, &events); err != nil {
		c.logger.Warn("History payload is not a list: %s", url)
		return
	}
	c.mu.Lock()
	c.history = events
	c.mu.Unlock()
	c.logger.Debug("History captured (%d events)", len(events))
}

// Ficha returns the buffered ficha payload, nil if none was captured.
func (c *DetailCapture) Ficha() json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ficha
}

// History returns the buffered publication events, nil if none.
func (c *DetailCapture) History() []json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history
}

// Clear resets both buffers.
func (c *DetailCapture) Clear() {
	c.mu.Lock()
	c.ficha = nil
	c.history = nil
	c.mu.Unlock()
}
