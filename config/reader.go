package config

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"
	"sort"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"go.viam.com/dhkin/logging"
	"go.viam.com/dhkin/utils"
)

// Read reads a config from the given file. Environment variables in the file are expanded first.
func Read(filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %q", filePath)
	}
	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	var attrs utils.AttributeMap
	if err := json.NewDecoder(r).Decode(&attrs); err != nil {
		return nil, errors.Wrap(err, "cannot parse config")
	}
	cfg, unused, err := TransformAttributeMap[*Config](attrs)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode config")
	}
	for _, key := range unused {
		logger.Warnw("unrecognized config key", "key", key, "file", originalPath)
	}
	cfg.ConfigFilePath = originalPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TransformAttributeMap uses an attribute map to transform attributes to the prescribed format.
// Keys that matched no field are returned sorted.
func TransformAttributeMap[T any](attributes utils.AttributeMap) (T, []string, error) {
	var out T

	var forResult interface{}

	toT := reflect.TypeOf(out)
	if toT == nil {
		// nothing to transform
		return out, nil, nil
	}
	if toT.Kind() == reflect.Ptr {
		// needs to be allocated then
		var ok bool
		out, ok = reflect.New(toT.Elem()).Interface().(T)
		if !ok {
			return out, nil, errors.Errorf("failed to allocate default config type %T", out)
		}
		forResult = out
	} else {
		forResult = &out
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     forResult,
		Metadata:   &md,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return out, nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return out, nil, err
	}
	sort.Strings(md.Unused)
	return out, md.Unused, nil
}
