// Command genmock generates a synthetic DGT DATEX2 situation publication for
// offline runs and demos. The output deliberately includes degraded records
// (missing location references, missing coordinates) so the extractor's drop
// paths are exercised. The generated document is round-tripped through the
// real parser before being written, so fixtures always match pipeline
// behavior.
//
// Usage:
//
//	go run ./cmd/genmock -count 50 -out datex2_v36.xml
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/roadwatch/dgt-situation-etl/internal/datex"
)

type place struct {
	province  string
	community string
	road      string
	lat       float64
	lon       float64
}

var places = []place{
	{"Madrid", "Comunidad de Madrid", "A-1", 40.42, -3.70},
	{"Madrid", "Comunidad de Madrid", "M-30", 40.43, -3.68},
	{"Barcelona", "Cataluña", "AP-7", 41.39, 2.17},
	{"Sevilla", "Andalucía", "A-4", 37.39, -5.98},
	{"Málaga", "Andalucía", "A-45", 36.72, -4.42},
	{"Zaragoza", "Aragón", "A-2", 41.65, -0.88},
	{"Valencia", "Comunidad Valenciana", "A-3", 39.47, -0.38},
	{"Burgos", "Castilla y León", "A-62", 42.34, -3.70},
}

var severities = []string{"low", "medium", "high", "highest"}
var managementTypes = []string{"laneClosures", "roadClosed", "singleAlternateLineTraffic", "other"}
var causeTypes = []string{"roadworks", "accident", "obstruction", "weatherConditions"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	count := flag.Int("count", 25, "number of situations to generate")
	out := flag.String("out", "datex2_v36.xml", "output path for the generated publication")
	seed := flag.Int64("seed", 1, "random seed, fixed by default for reproducible fixtures")
	flag.Parse()

	if *count <= 0 {
		return fmt.Errorf("-count must be positive, got %d", *count)
	}

	rng := rand.New(rand.NewSource(*seed))
	doc := generate(rng, *count)

	// Round-trip through the real parser to guarantee the fixture is usable.
	parsed, err := datex.Parse(doc)
	if err != nil {
		return fmt.Errorf("generated document does not parse: %w", err)
	}
	situations, report, err := datex.ExtractWithReport(parsed)
	if err != nil {
		return fmt.Errorf("generated document does not extract: %w", err)
	}

	if err := os.WriteFile(*out, doc, 0o644); err != nil {
		return fmt.Errorf("writing publication: %w", err)
	}

	log.Printf("wrote %s: %d situations, %d records, %d extractable", *out, report.Situations, report.Records, len(situations))
	return nil
}

// generate builds the publication. Roughly one record in six has no location
// reference and one in seven has an empty coordinates block, matching the
// kind of gaps the live feed shows.
func generate(rng *rand.Rand, count int) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<d2:payload xmlns:d2="` + datex.NSPayload + `"` + "\n")
	b.WriteString(`            xmlns:sit="` + datex.NSSituation + `"` + "\n")
	b.WriteString(`            xmlns:loc="` + datex.NSLocation + `"` + "\n")
	b.WriteString(`            xmlns:com="` + datex.NSCommon + `"` + "\n")
	b.WriteString(`            xmlns:lse="` + datex.NSSpanishExt + `">` + "\n")
	b.WriteString("  <sit:situationPublication>\n")

	for i := 0; i < count; i++ {
		writeSituation(&b, rng, i)
	}

	b.WriteString("  </sit:situationPublication>\n")
	b.WriteString("</d2:payload>\n")
	return []byte(b.String())
}

func writeSituation(b *strings.Builder, rng *rand.Rand, i int) {
	p := places[rng.Intn(len(places))]
	severity := severities[rng.Intn(len(severities))]

	fmt.Fprintf(b, "    <sit:situation id=\"DGT-%05d\">\n", i+1)
	fmt.Fprintf(b, "      <sit:overallSeverity>%s</sit:overallSeverity>\n", severity)
	b.WriteString("      <sit:situationRecord>\n")
	fmt.Fprintf(b, "        <sit:causeType>%s</sit:causeType>\n", causeTypes[rng.Intn(len(causeTypes))])
	fmt.Fprintf(b, "        <sit:roadOrCarriagewayOrLaneManagementType>%s</sit:roadOrCarriagewayOrLaneManagementType>\n",
		managementTypes[rng.Intn(len(managementTypes))])

	switch {
	case i%6 == 5:
		// No location reference at all.
	case i%7 == 6:
		b.WriteString("        <sit:locationReference>\n")
		b.WriteString("          <loc:point>\n")
		b.WriteString("            <loc:pointCoordinates/>\n")
		b.WriteString("          </loc:point>\n")
		b.WriteString("        </sit:locationReference>\n")
	default:
		lat := p.lat + rng.Float64()*0.5 - 0.25
		lon := p.lon + rng.Float64()*0.5 - 0.25
		km := float64(rng.Intn(4000)) / 10

		b.WriteString("        <sit:locationReference>\n")
		b.WriteString("          <loc:pointLocation>\n")
		b.WriteString("            <loc:point>\n")
		b.WriteString("              <loc:pointCoordinates>\n")
		fmt.Fprintf(b, "                <loc:latitude>%.5f</loc:latitude>\n", lat)
		fmt.Fprintf(b, "                <loc:longitude>%.5f</loc:longitude>\n", lon)
		b.WriteString("              </loc:pointCoordinates>\n")
		b.WriteString("              <loc:extendedTpegNonJunctionPoint>\n")
		fmt.Fprintf(b, "                <lse:province>%s</lse:province>\n", p.province)
		fmt.Fprintf(b, "                <lse:autonomousCommunity>%s</lse:autonomousCommunity>\n", p.community)
		fmt.Fprintf(b, "                <lse:kilometerPoint>%.1f</lse:kilometerPoint>\n", km)
		b.WriteString("              </loc:extendedTpegNonJunctionPoint>\n")
		b.WriteString("            </loc:point>\n")
		fmt.Fprintf(b, "            <loc:roadName>%s</loc:roadName>\n", p.road)
		b.WriteString("          </loc:pointLocation>\n")
		b.WriteString("        </sit:locationReference>\n")
	}

	b.WriteString("      </sit:situationRecord>\n")
	b.WriteString("    </sit:situation>\n")
}
