// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultServiceDuration is the duration of a service in minutes when
// it is not specified explicitly.
const DefaultServiceDuration = 60

// Service is a bookable catalog item. Its price is copied into the
// booking (and its payment) at booking time.
type Service struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration"` // minutes
	ServiceType string          `json:"service_type,omitempty"`
	Image       string          `json:"image,omitempty"`
	Active      bool            `json:"is_active"`
	Featured    bool            `json:"is_featured"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Validate checks the mandatory fields of s and fills its defaults.
func (s *Service) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	switch {
	case s.Name == "":
		return errors.New("service name is required")
	case s.Price.IsNegative():
		return errors.New("service price may not be negative")
	case s.Duration < 0:
		return errors.New("service duration may not be negative")
	}
	if s.Duration == 0 {
		s.Duration = DefaultServiceDuration
	}
	s.Price = s.Price.Round(2)
	return nil
}

// CarPart is a purchasable catalog item. Its stock is decremented when
// an order is finalized and never becomes negative.
type CarPart struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock_quantity"`
	Category      string          `json:"category,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	PartNumber    string          `json:"part_number,omitempty"`
	Compatibility string          `json:"compatibility,omitempty"`
	Image         string          `json:"image,omitempty"`
	Active        bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Validate checks the mandatory fields of p.
func (p *CarPart) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	switch {
	case p.Name == "":
		return errors.New("part name is required")
	case !p.Price.IsPositive():
		return errors.New("part price must be positive")
	case p.Stock < 0:
		return errors.New("part stock may not be negative")
	}
	p.Price = p.Price.Round(2)
	return nil
}

// Available reports whether qty items of p may be sold right now.
func (p *CarPart) Available(qty int) bool {
	return p.Active && qty > 0 && p.Stock >= qty
}

// PartFilter selects car parts for the catalog listing.
// Search is matched case-insensitively against the name and the
// description, while Category must match exactly.
type PartFilter struct {
	ActiveOnly bool
	Category   string
	Search     string
}

// ServiceFilter selects catalog services, ordered by their names after
// the featured ones if FeaturedFirst is set. A zero Limit means no
// limit.
type ServiceFilter struct {
	ActiveOnly    bool
	FeaturedFirst bool
	Limit         int
}

// PartsPage is the public car parts catalog page data.
type PartsPage struct {
	Parts      []CarPart `json:"parts"`
	Categories []string  `json:"categories"`
	Category   string    `json:"selected_category"`
	Search     string    `json:"search_term"`
}
