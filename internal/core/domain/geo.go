package domain

import "github.com/nyayasahayak/legallibrary/internal/pkg/geospatial"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint = geospatial.Point
