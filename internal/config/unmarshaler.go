// Package config provides internal configuration loading and processing.
package config

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/lavy-dev/lavy/pkg/config"
)

// CustomDecoderConfig returns a mapstructure decoder config with the lavy type hooks.
// Input is strictly typed: a string max_length or a scalar types value is an error,
// not a conversion.
func CustomDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToPatternHookFunc(),
		),
		WeaklyTypedInput: false,
		TagName:          "koanf",
		Result:           nil, // Set by caller
	}
}

// decode decodes input into out using CustomDecoderConfig.
func decode(input, out any) error {
	dc := CustomDecoderConfig()
	dc.Result = out

	d, err := mapstructure.NewDecoder(dc)
	if err != nil {
		return err
	}

	return d.Decode(input)
}

// stringToPatternHookFunc returns a decode hook for converting strings to *config.Pattern.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToPatternHookFunc() mapstructure.DecodeHookFunc {
	patternType := reflect.TypeFor[*config.Pattern]()

	return func(
		_ reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if t != patternType && t != patternType.Elem() {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			p, err := config.ParsePattern(v)
			if err != nil {
				return nil, err
			}

			if t == patternType {
				return p, nil
			}

			return *p, nil

		case *config.Pattern:
			if t == patternType.Elem() && v != nil {
				return *v, nil
			}

			return v, nil

		default:
			return data, nil
		}
	}
}
