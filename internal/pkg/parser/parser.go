// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package parser decodes request query strings into typed structs.
package parser

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("query")
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return d
}

// Values copies the raw query arguments of the request, keeping repeated keys.
func Values(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}

// DecodeValues fills dst from values using `query` struct tags.
func DecodeValues(dst interface{}, values url.Values) error {
	if err := decoder.Decode(dst, values); err != nil {
		return fmt.Errorf("invalid query parameters: %w", err)
	}
	return nil
}

// Query fills dst from the request query string.
func Query(c *fiber.Ctx, dst interface{}) error {
	return DecodeValues(dst, Values(c))
}
