package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type AdStatus string

const (
	AdStatusDraft    AdStatus = "draft"
	AdStatusActive   AdStatus = "active"
	AdStatusInactive AdStatus = "inactive"
	AdStatusSoldOut  AdStatus = "sold-out"
	AdStatusExpired  AdStatus = "expired"
)

// Ad is the denormalized read model of one advertising placement.
type Ad struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Slug          string       `json:"slug"`
	Description   string       `json:"description"`
	CategoryID    int64        `json:"category_id"`
	Category      *CategoryRef `json:"category,omitempty"`
	DistrictID    int64        `json:"district_id"`
	District      *DistrictRef `json:"district,omitempty"`
	Location      *Location    `json:"location"`
	Specs         Specs        `json:"specs"`
	Pricing       Pricing      `json:"pricing"`
	Metadata      *Metadata    `json:"metadata,omitempty"`
	Status        AdStatus     `json:"status"`
	Featured      bool         `json:"featured"`
	Verified      bool         `json:"verified"`
	VerifiedAt    *time.Time   `json:"verified_at,omitempty"`
	Tags          []string     `json:"tags"`
	ViewCount     int64        `json:"view_count"`
	FavoriteCount int64        `json:"favorite_count"`
	InquiryCount  int64        `json:"inquiry_count"`
	IsActive      bool         `json:"is_active"`
	Images        []AdImage    `json:"images"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CategoryRef and DistrictRef are the joined display names carried on an ad.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type DistrictRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// Coordinates is a [longitude, latitude] pair.
type Coordinates [2]float64

func (c Coordinates) Lng() float64 { return c[0] }
func (c Coordinates) Lat() float64 { return c[1] }

type Location struct {
	Address        string       `json:"address" validate:"required"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	Landmarks      []string     `json:"landmarks,omitempty"`
	NearestStation *Station     `json:"nearest_station,omitempty"`
	Parking        *Parking     `json:"parking,omitempty"`
}

type Station struct {
	Name      string `json:"name"`
	Line      string `json:"line,omitempty"`
	DistanceM int    `json:"distance_m,omitempty"`
}

type Parking struct {
	Available   bool   `json:"available"`
	Description string `json:"description,omitempty"`
}

type Specs struct {
	Type       string   `json:"type"`
	Size       string   `json:"size"`
	Width      *float64 `json:"width,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Brightness *int     `json:"brightness,omitempty"`
	Resolution string   `json:"resolution,omitempty"`
	Material   string   `json:"material,omitempty"`
}

type Pricing struct {
	Monthly           *int64             `json:"monthly" validate:"required,gt=0"`
	Weekly            *int64             `json:"weekly,omitempty"`
	Daily             *int64             `json:"daily,omitempty"`
	Deposit           *int64             `json:"deposit,omitempty"`
	SetupFee          *int64             `json:"setup_fee,omitempty"`
	DesignFee         *int64             `json:"design_fee,omitempty"`
	MinContractMonths int                `json:"min_contract_months"`
	Discounts         map[string]float64 `json:"discounts,omitempty"`
	AdditionalCosts   []AdditionalCost   `json:"additional_costs,omitempty"`
}

type AdditionalCost struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type Metadata struct {
	Traffic          string       `json:"traffic,omitempty"`
	Visibility       string       `json:"visibility,omitempty"`
	NearbyBusinesses []string     `json:"nearby_businesses,omitempty"`
	OperatingHours   string       `json:"operating_hours,omitempty"`
	Restrictions     []string     `json:"restrictions,omitempty"`
	Performance      *Performance `json:"performance,omitempty"`
}

type Performance struct {
	AverageDailyViews *float64 `json:"average_daily_views,omitempty"`
	PeakHours         []string `json:"peak_hours,omitempty"`
}

// Address returns the location address, or "" when the ad has no location.
func (a *Ad) Address() string {
	if a.Location == nil {
		return ""
	}
	return a.Location.Address
}

// Position returns the map coordinates of the ad, if any.
func (a *Ad) Position() (Coordinates, bool) {
	if a.Location == nil || a.Location.Coordinates == nil {
		return Coordinates{}, false
	}
	return *a.Location.Coordinates, true
}

func (a *Ad) DistrictName() string {
	if a.District == nil {
		return ""
	}
	return a.District.Name
}

func (a *Ad) CategoryName() string {
	if a.Category == nil {
		return ""
	}
	return a.Category.Name
}

// AverageDailyViews defaults to 0 when no performance metrics are recorded.
func (a *Ad) AverageDailyViews() float64 {
	if a.Metadata == nil || a.Metadata.Performance == nil || a.Metadata.Performance.AverageDailyViews == nil {
		return 0
	}
	return *a.Metadata.Performance.AverageDailyViews
}

// Value implements driver.Valuer for JSONB serialization
func (l Location) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB deserialization
func (l *Location) Scan(value interface{}) error {
	return scanJSONB(value, l)
}

func (s Specs) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Specs) Scan(value interface{}) error {
	return scanJSONB(value, s)
}

func (p Pricing) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Pricing) Scan(value interface{}) error {
	return scanJSONB(value, p)
}

func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	return scanJSONB(value, m)
}

func scanJSONB(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported jsonb source type")
	}
}

type AdFilter struct {
	Status     string
	CategoryID int64
	DistrictID int64
	Limit      int
	Offset     int
}

type CreateAdRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Slug        string    `json:"slug" validate:"omitempty,max=255"`
	Description string    `json:"description"`
	CategoryID  int64     `json:"category_id" validate:"required,gt=0"`
	DistrictID  int64     `json:"district_id" validate:"required,gt=0"`
	Location    Location  `json:"location"`
	Specs       Specs     `json:"specs"`
	Pricing     Pricing   `json:"pricing"`
	Metadata    *Metadata `json:"metadata,omitempty"`
	Status      AdStatus  `json:"status" validate:"omitempty,oneof=draft active inactive sold-out expired"`
	Featured    bool      `json:"featured"`
	Verified    bool      `json:"verified"`
	Tags        []string  `json:"tags"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

type UpdateAdRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Slug        *string   `json:"slug,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string   `json:"description,omitempty"`
	CategoryID  *int64    `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	DistrictID  *int64    `json:"district_id,omitempty" validate:"omitempty,gt=0"`
	Location    *Location `json:"location,omitempty"`
	Specs       *Specs    `json:"specs,omitempty"`
	Pricing     *Pricing  `json:"pricing,omitempty"`
	Metadata    *Metadata `json:"metadata,omitempty"`
	Status      *AdStatus `json:"status,omitempty" validate:"omitempty,oneof=draft active inactive sold-out expired"`
	Featured    *bool     `json:"featured,omitempty"`
	Verified    *bool     `json:"verified,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

// Counter names the engagement counters that visitors can increment.
type Counter string

const (
	CounterView     Counter = "view"
	CounterFavorite Counter = "favorite"
	CounterInquiry  Counter = "inquiry"
)

func (c Counter) Column() (string, bool) {
	switch c {
	case CounterView:
		return "view_count", true
	case CounterFavorite:
		return "favorite_count", true
	case CounterInquiry:
		return "inquiry_count", true
	}
	return "", false
}
