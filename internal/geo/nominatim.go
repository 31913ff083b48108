package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Location - результат обратного геокодирования
type Location struct {
	Country string
	City    string
}

// Geocoder определяет интерфейс обратного геокодирования
type Geocoder interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (*Location, error)
}

// NominatimGeocoder реализует Geocoder через публичный API nominatim
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimGeocoder создает геокодер с таймаутом по умолчанию
func NewNominatimGeocoder() *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:   "https://nominatim.openstreetmap.org",
		userAgent: "BuziakApp/1.0",
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewNominatimGeocoderWithURL создает геокодер с кастомным адресом (для тестов)
func NewNominatimGeocoderWithURL(baseURL string) *NominatimGeocoder {
	g := NewNominatimGeocoder()
	g.baseURL = baseURL
	return g
}

type nominatimResponse struct {
	Address struct {
		Country      string `json:"country"`
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
	} `json:"address"`
}

// ReverseGeocode возвращает страну и город по координатам
func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*Location, error) {
	url := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f&addressdetails=1",
		g.baseURL, latitude, longitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var data nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	city := data.Address.City
	if city == "" {
		city = data.Address.Town
	}
	if city == "" {
		city = data.Address.Village
	}
	if city == "" {
		city = data.Address.Municipality
	}

	return &Location{
		Country: data.Address.Country,
		City:    city,
	}, nil
}
