package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultBoltTokenURL = "https://oidc.bolt.eu/token"
	DefaultBoltBaseURL  = "https://api.bolt.eu/fleet-integration/v1"
	boltScope           = "fleet-integration:api"
	boltEarningsWindow  = 30 // days
)

// ErrBoltToken is returned when the OAuth token request is rejected
var ErrBoltToken = errors.New("falha ao obter token da Bolt")

// FlexString accepts JSON strings and numbers
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(string(b))
	return nil
}

// FlexFloat accepts JSON numbers and numeric strings. Unparseable strings are 0.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = FlexFloat(ParseAmount(v))
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

type BoltDriver struct {
	ID        FlexString `json:"id"`
	Name      string     `json:"name,omitempty"`
	FullName  string     `json:"full_name,omitempty"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	TaxID     string     `json:"tax_id,omitempty"`
	NIF       string     `json:"nif,omitempty"`
}

// DisplayName picks the first name field Bolt filled in
func (d BoltDriver) DisplayName() string {
	if n := strings.TrimSpace(d.Name); n != "" {
		return n
	}
	if n := strings.TrimSpace(d.FullName); n != "" {
		return n
	}
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

type BoltVehicle struct {
	ID                 FlexString `json:"id"`
	PlateNumber        string     `json:"plate_number,omitempty"`
	Plate              string     `json:"plate,omitempty"`
	RegistrationNumber string     `json:"registration_number,omitempty"`
	Make               string     `json:"make,omitempty"`
	Brand              string     `json:"brand,omitempty"`
	Model              string     `json:"model,omitempty"`
	Year               FlexFloat  `json:"year,omitempty"`
}

func (v BoltVehicle) PlateValue() string {
	for _, p := range []string{v.PlateNumber, v.Plate, v.RegistrationNumber} {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return ""
}

type BoltEarning struct {
	ID          FlexString `json:"id"`
	DriverName  string     `json:"driver_name,omitempty"`
	Name        string     `json:"name,omitempty"`
	Amount      FlexFloat  `json:"amount,omitempty"`
	TotalAmount FlexFloat  `json:"total_amount,omitempty"`
	Date        string     `json:"date,omitempty"`
	Period      string     `json:"period,omitempty"`
}

// BoltPayload is the consolidated result of one sync
type BoltPayload struct {
	Drivers   []BoltDriver  `json:"drivers"`
	Vehicles  []BoltVehicle `json:"vehicles"`
	Earnings  []BoltEarning `json:"earnings"`
	IsMock    bool          `json:"isMock,omitempty"`
	Timestamp string        `json:"timestamp"`
}

type BoltCredentials struct {
	ClientID     string
	ClientSecret string
}

func (c BoltCredentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// ResolveBoltCredentials prefers the credentials saved in company settings
// over the environment defaults.
func ResolveBoltCredentials(settings models.CompanySettings, fallback BoltCredentials) BoltCredentials {
	if settings.BoltClientID != "" && settings.BoltClientSecret != "" {
		return BoltCredentials{ClientID: settings.BoltClientID, ClientSecret: settings.BoltClientSecret}
	}
	return fallback
}

//go:generate mockgen -source=bolt.go -destination=mocks/mock_bolt.go -package=mock_services

// BoltClient fetches drivers, vehicles and recent earnings from Bolt
type BoltClient interface {
	Sync(ctx context.Context, creds BoltCredentials) (*BoltPayload, error)
}

// HTTPBoltClient talks to the Bolt Fleet Integration API
type HTTPBoltClient struct {
	TokenURL   string
	BaseURL    string
	HTTPClient *http.Client
	Now        func() time.Time
}

func NewHTTPBoltClient(tokenURL, baseURL string, timeout time.Duration) *HTTPBoltClient {
	if tokenURL == "" {
		tokenURL = DefaultBoltTokenURL
	}
	if baseURL == "" {
		baseURL = DefaultBoltBaseURL
	}
	return &HTTPBoltClient{
		TokenURL:   tokenURL,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Now:        time.Now,
	}
}

// Sync returns demo data when no credentials are configured. A token failure
// aborts the sync; a failing list endpoint only empties that list.
func (c *HTTPBoltClient) Sync(ctx context.Context, creds BoltCredentials) (*BoltPayload, error) {
	now := c.Now()
	if !creds.Configured() {
		log.Printf("Bolt credentials not configured. Returning mock data.")
		return MockPayload(now), nil
	}

	conf := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     c.TokenURL,
		Scopes:       []string{boltScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	token, err := conf.Token(ctx)
	if err != nil {
		log.Printf("Bolt Token Error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrBoltToken, err)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	payload := &BoltPayload{
		Drivers:   []BoltDriver{},
		Vehicles:  []BoltVehicle{},
		Earnings:  []BoltEarning{},
		Timestamp: now.UTC().Format(time.RFC3339),
	}

	var drivers struct {
		Drivers []BoltDriver `json:"drivers"`
	}
	if err := c.getJSON(ctx, client, "/drivers", &drivers); err != nil {
		log.Printf("Drivers Fetch Error: %v", err)
	} else if drivers.Drivers != nil {
		payload.Drivers = drivers.Drivers
	}

	var vehicles struct {
		Vehicles []BoltVehicle `json:"vehicles"`
	}
	if err := c.getJSON(ctx, client, "/vehicles", &vehicles); err != nil {
		log.Printf("Vehicles Fetch Error: %v", err)
	} else if vehicles.Vehicles != nil {
		payload.Vehicles = vehicles.Vehicles
	}

	start := models.FormatDate(now.AddDate(0, 0, -boltEarningsWindow))
	end := models.FormatDate(now)
	var earnings struct {
		Earnings []BoltEarning `json:"earnings"`
	}
	if err := c.getJSON(ctx, client, fmt.Sprintf("/earnings?start_date=%s&end_date=%s", start, end), &earnings); err != nil {
		log.Printf("Earnings Fetch Error: %v", err)
	} else if earnings.Earnings != nil {
		payload.Earnings = earnings.Earnings
	}

	log.Printf("Sync complete. Drivers: %d, Vehicles: %d, Earnings: %d", len(payload.Drivers), len(payload.Vehicles), len(payload.Earnings))
	return payload, nil
}

func (c *HTTPBoltClient) getJSON(ctx context.Context, client *http.Client, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// MockPayload is returned when no Bolt credentials exist so the sync flow can be demoed.
func MockPayload(now time.Time) *BoltPayload {
	today := models.FormatDate(now)
	return &BoltPayload{
		Drivers: []BoltDriver{
			{ID: "mock-1", Name: "João Silva (Bolt)", Email: "joao.bolt@example.com", Phone: "912345678", TaxID: "123456789"},
			{ID: "mock-2", Name: "Maria Santos (Bolt)", Email: "maria.bolt@example.com", Phone: "912345679", TaxID: "987654321"},
		},
		Vehicles: []BoltVehicle{
			{ID: "mock-v1", PlateNumber: "AA-00-BB", Make: "Toyota", Model: "Corolla", Year: 2022},
			{ID: "mock-v2", PlateNumber: "CC-11-DD", Make: "Renault", Model: "Zoe", Year: 2023},
		},
		Earnings: []BoltEarning{
			{ID: "mock-e1", DriverName: "João Silva (Bolt)", Amount: 450.50, Date: today, Period: "Semana Atual"},
			{ID: "mock-e2", DriverName: "Maria Santos (Bolt)", Amount: 580.20, Date: today, Period: "Semana Atual"},
		},
		IsMock:    true,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
