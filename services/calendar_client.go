package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"camera-logistics-system/models"
	"camera-logistics-system/utils"

	"github.com/gosimple/slug"
)

// CalendarSync mirrors tournaments into an external calendar. Every call is
// best-effort from the synchronizer's point of view: a failing calendar never
// aborts a tournament mutation.
type CalendarSync interface {
	IsAuthenticated() bool
	CreateEvent(t *models.Tournament) (string, error)
	UpdateEvent(eventID string, t *models.Tournament) error
	DeleteEvent(eventID string) error
	FindEvent(name string) (string, error)
}

// CalendarClient talks to the calendar-sync service over HTTP.
type CalendarClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewCalendarClient normalizes the base URL so a bare host from the
// environment still gets a scheme.
func NewCalendarClient(baseURL, token string) *CalendarClient {
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "https://" + baseURL
	}
	return &CalendarClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		Client:  utils.HTTPClient,
	}
}

type calendarEvent struct {
	ID          string `json:"id,omitempty"`
	Summary     string `json:"summary"`
	Location    string `json:"location"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

func eventFromTournament(t *models.Tournament) calendarEvent {
	return calendarEvent{
		Summary:     t.Name,
		Location:    t.Location,
		Description: fmt.Sprintf("Torneo de golf: %d hoyos, %d día(s). Responsable: %s", t.Holes, t.Days, t.Worker),
		StartDate:   t.Date,
		EndDate:     t.EndDate,
	}
}

// IsAuthenticated asks the sync service whether a calendar account is linked.
func (c *CalendarClient) IsAuthenticated() bool {
	req, err := http.NewRequest("GET", c.BaseURL+"/auth/status", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	resp, err := c.Client.Do(req)
	if err != nil {
		log.Printf("calendar auth check failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *CalendarClient) CreateEvent(t *models.Tournament) (string, error) {
	var out calendarEvent
	if err := c.do("POST", "/events", eventFromTournament(t), &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *CalendarClient) UpdateEvent(eventID string, t *models.Tournament) error {
	return c.do("PUT", "/events/"+eventID, eventFromTournament(t), nil)
}

func (c *CalendarClient) DeleteEvent(eventID string) error {
	return c.do("DELETE", "/events/"+eventID, nil, nil)
}

// FindEvent looks an event up by tournament name. Matching is done on slugs
// so accents and casing differences between the calendar and the dashboard
// don't hide the event.
func (c *CalendarClient) FindEvent(name string) (string, error) {
	var events []calendarEvent
	if err := c.do("GET", "/events?query="+slug.Make(name), nil, &events); err != nil {
		return "", err
	}
	want := slug.Make(name)
	for _, e := range events {
		if slug.Make(e.Summary) == want {
			return e.ID, nil
		}
	}
	return "", fmt.Errorf("no calendar event matching %q", name)
}

func (c *CalendarClient) do(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(jsonData)
	}
	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("calendar service %s %s returned %d: %s", method, path, resp.StatusCode, string(respBody))
		return fmt.Errorf("calendar service returned %d", resp.StatusCode)
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return err
		}
	}
	return nil
}
