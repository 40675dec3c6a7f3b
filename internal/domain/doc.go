// Package domain models traffic situations published by the DGT (Dirección
// General de Tráfico, the Spanish road authority).
//
// # Data Source
//
// Situations originate from the DGT national access point, which publishes a
// DATEX2 v3.6 SituationPublication XML document at
// https://nap.dgt.es/datex2/v3/dgt/SituationPublication/datex2_v36.xml.
// The document is a flat list of <situation> containers, each holding one or
// more <situationRecord> facts (a lane closure, roadworks, an obstruction)
// with their own location references.
//
// # DATEX2 Conventions
//
// Namespaces:
//
//	The payload mixes five namespaces — the d2Payload root, situation,
//	locationReferencing, common, and the Spanish locationReferencing
//	extension. Prefixes vary between publications; matching is always by
//	namespace URI.
//
// Identity and severity:
//
//	The situation "id" attribute and <overallSeverity> (low, medium, high,
//	highest) are situation-scoped and shared by every record nested under
//	that situation. A missing id becomes the empty string, never an error.
//
// Location resolution:
//
//	Each record carries a <locationReference> holding either a linear
//	location (a <from>/<to> endpoint pair) or a single <point>. Records are
//	reduced to exactly one coordinate pair using from > to > point priority;
//	no merging across candidate points. Records with no location reference,
//	no usable point, or an incomplete coordinate pair are silently dropped —
//	an incident that cannot be placed on the map is useless downstream.
//
// Spanish extension:
//
//	<extendedTpegNonJunctionPoint> enriches a point with province,
//	municipality, autonomous community, and the kilometer marker along the
//	road. All of it is optional, and coordinate and extension lookups are
//	independent of each other.
//
// Numeric fields:
//
//	latitude, longitude and kilometerPoint are decimal text nodes. Empty or
//	non-numeric text is treated as absent, never raised as an error, in line
//	with the best-effort posture of the rest of the extraction.
package domain
