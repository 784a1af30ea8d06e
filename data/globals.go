// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package data

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/documotor/tagscript/locales"
)

// Globals computes the built in global variables of a render, as $date or
// $uuid. Workflow holds the workflow and execution metadata passed through
// by name, as "workflow_name" or "execution_id". Custom variables override
// any built in of the same name.
//
// The document number counter lives in the provider: it increases
// monotonically for its lifetime and is not shared across providers.
type Globals struct {
	Workflow map[string]interface{}
	Custom   map[string]interface{}
	// Now returns the current time. If nil, time.Now is used.
	Now func() time.Time

	docNumber atomic.Int64
}

func (g *Globals) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Resolve resolves a global variable by name. Time components use the month
// and weekday names of the locale.
func (g *Globals) Resolve(name, locale string) (interface{}, bool) {
	if v, ok := g.Custom[name]; ok {
		return v, true
	}
	now := g.now()
	switch name {
	case "timestamp":
		return now.Unix(), true
	case "date":
		return now.Format("2006-01-02"), true
	case "date_br":
		return now.Format("02/01/2006"), true
	case "time":
		return now.Format("15:04:05"), true
	case "datetime":
		return now.Format("2006-01-02 15:04:05"), true
	case "datetime_br":
		return now.Format("02/01/2006 15:04:05"), true
	case "year":
		return now.Format("2006"), true
	case "month":
		return now.Format("01"), true
	case "day":
		return now.Format("02"), true
	case "month_name":
		return locales.Get(locale).Month(now.Month()), true
	case "weekday":
		return locales.Get(locale).Weekday(now.Weekday()), true
	case "uuid":
		return uuid.NewString(), true
	case "document_number":
		return fmt.Sprintf("%06d", g.docNumber.Add(1)), true
	}
	if v, ok := g.Workflow[name]; ok {
		return v, true
	}
	return nil, false
}
