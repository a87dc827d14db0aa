// Package dsl provides builder functions for writing schemas in Go.
//
// Builders return plain canonical schema fragments. Object fields are
// required unless wrapped with [Optional] or [Nillable]:
//
//	user := dsl.Object(
//	    dsl.F("id", dsl.UUID()),
//	    dsl.F("email", dsl.Email()),
//	    dsl.F("nickname", dsl.Nillable(dsl.String())),
//	    dsl.F("createdAt", dsl.Date(dsl.FormatMinimum("2016-02-06"))),
//	)
//
// A [Module] collects named types and is the "custom" schema source
// accepted by the normalizer, either in process or as a JSON/YAML module file.
package dsl
