// Package domain models electric vehicle registration data and the
// aggregations the dashboard renders from it.
//
// # Data Source
//
// Registrations come from a single CSV export in the shape of the Washington
// State "Electric Vehicle Population Data" dataset. Only seven columns are
// used; any others are ignored:
//
//	model_year, make, model, city, electric_range, base_msrp, vehicle_location
//
// Header names are matched after normalisation, so "Model Year" and
// "model_year" are the same column.
//
// # Cleaning Rules
//
// Integer columns:
//
//	model_year       required; "2020" and "2020.0" both parse, fractions truncate.
//	electric_range   missing -> 0, then truncated to int.
//	base_msrp        missing -> 0, then truncated to int.
//
// Missing means an empty cell or one of the markers NA, NaN, <nil>.
// A value that is present but not numeric is a parse error and loading fails.
//
// Geometry:
//
//	vehicle_location holds WKT text, e.g. "POINT (-122.33 47.61)".
//	Longitude is the first number after the literal "POINT (".
//	Latitude is the number directly before the ")" that ends the string.
//
// Each coordinate is extracted on its own. When a pattern does not match the
// coordinate is NaN and the row is kept; see [ParsePoint]. NaN rows are left
// off the map and counted in [Table.MalformedLocations].
//
// # Selections
//
// A [Selection] is a set of model years and a set of makes. A row passes when
// both of its values are in the sets. The default selection holds every
// distinct value; an empty set selects nothing.
package domain
