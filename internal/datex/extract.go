package datex

import (
	"strconv"

	"github.com/roadwatch/dgt-situation-etl/internal/domain"
)

// DropReason classifies why a situation record was left out of the output.
type DropReason string

const (
	// DropNoLocationReference marks records without a direct
	// locationReference child.
	DropNoLocationReference DropReason = "no_location_reference"
	// DropNoPoint marks records whose location reference holds no from,
	// to, or point element.
	DropNoPoint DropReason = "no_point"
	// DropNoCoordinates marks records whose resolved point is missing
	// latitude, longitude, or both.
	DropNoCoordinates DropReason = "no_coordinates"
)

// Report summarizes one extraction pass for observability. Drops are policy,
// not errors: a record that cannot be geolocated is omitted silently and
// only shows up here.
type Report struct {
	Situations int
	Records    int
	Dropped    map[DropReason]int
}

// Extract walks a parsed publication and returns one Situation per
// geolocatable situation record, preserving document order.
func Extract(doc *Document) ([]domain.Situation, error) {
	situations, _, err := ExtractWithReport(doc)
	return situations, err
}

// ExtractWithReport is Extract plus per-reason drop counts. Running it twice
// over the same document yields identical results; the pass only reads the
// tree.
func ExtractWithReport(doc *Document) ([]domain.Situation, Report, error) {
	if doc.Root() == nil {
		return nil, Report{}, ErrNotLoaded
	}

	report := Report{Dropped: make(map[DropReason]int)}
	var situations []domain.Situation

	for _, sit := range doc.FindAll(NSSituation, "situation") {
		report.Situations++
		id := sit.Attr("id")
		severity := textOrNil(sit.Find(NSSituation, "overallSeverity"))

		for _, rec := range sit.FindAll(NSSituation, "situationRecord") {
			report.Records++
			s, reason := extractRecord(id, severity, rec)
			if reason != "" {
				report.Dropped[reason]++
				continue
			}
			situations = append(situations, s)
		}
	}

	return situations, report, nil
}

// extractRecord builds a Situation from one situationRecord, or reports the
// drop reason if the record cannot be geolocated.
func extractRecord(id string, severity *string, rec *Node) (domain.Situation, DropReason) {
	locRef := rec.Child(NSSituation, "locationReference")
	if locRef == nil {
		return domain.Situation{}, DropNoLocationReference
	}

	// A linear location's from endpoint wins over to, and either wins over
	// a single point. Exactly one coordinate pair per record.
	point := locRef.Find(NSLocation, "from")
	if point == nil {
		point = locRef.Find(NSLocation, "to")
	}
	if point == nil {
		point = locRef.Find(NSLocation, "point")
	}
	if point == nil {
		return domain.Situation{}, DropNoPoint
	}

	info := extractPoint(point)
	if info.latitude == nil || info.longitude == nil {
		return domain.Situation{}, DropNoCoordinates
	}

	return domain.Situation{
		ID:                  id,
		Severity:            severity,
		Latitude:            *info.latitude,
		Longitude:           *info.longitude,
		Province:            info.province,
		Municipality:        info.municipality,
		AutonomousCommunity: info.autonomousCommunity,
		KmPoint:             info.kmPoint,
		RoadName:            textOrNil(rec.Find(NSLocation, "roadName")),
		ManagementType:      textOrNil(rec.Find(NSSituation, "roadOrCarriagewayOrLaneManagementType")),
		CauseType:           textOrNil(rec.Find(NSSituation, "causeType")),
	}, ""
}

// pointInfo holds everything a single point element can contribute. Each
// field is independently optional.
type pointInfo struct {
	latitude            *float64
	longitude           *float64
	province            *string
	municipality        *string
	autonomousCommunity *string
	kmPoint             *float64
}

// extractPoint reads coordinates and the Spanish administrative extension
// from a point element. The two lookups are independent: a point with
// coordinates but no extension block (or vice versa) is valid.
func extractPoint(point *Node) pointInfo {
	var info pointInfo

	if coords := point.Find(NSLocation, "pointCoordinates"); coords != nil {
		info.latitude = floatOrNil(coords.Child(NSLocation, "latitude"))
		info.longitude = floatOrNil(coords.Child(NSLocation, "longitude"))
	}

	if ext := point.Find(NSLocation, "extendedTpegNonJunctionPoint"); ext != nil {
		info.province = textOrNil(ext.Child(NSSpanishExt, "province"))
		info.municipality = textOrNil(ext.Child(NSSpanishExt, "municipality"))
		info.autonomousCommunity = textOrNil(ext.Child(NSSpanishExt, "autonomousCommunity"))
		info.kmPoint = floatOrNil(ext.Child(NSSpanishExt, "kilometerPoint"))
	}

	return info
}

// textOrNil returns the element's trimmed text, or nil for a missing
// element or empty text.
func textOrNil(n *Node) *string {
	if n == nil {
		return nil
	}
	s := n.Text()
	if s == "" {
		return nil
	}
	return &s
}

// floatOrNil parses the element's text as a float64. Missing elements,
// empty text, and parse failures all yield nil, never an error.
func floatOrNil(n *Node) *float64 {
	if n == nil {
		return nil
	}
	s := n.Text()
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
