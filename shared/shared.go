package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"hallseat/shared/cache"
	"hallseat/shared/constant"
	"hallseat/shared/dto"
	"hallseat/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func ConvertStringToInt(value string) *int {
	if value == "" {
		return nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to int")

		return nil
	}

	return &intValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the set fields of a struct into a map keyed by db tag.
// Nil pointers and zero values are skipped; non-nil pointers are dereferenced.
func TransformFields(data any) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		if field.Kind() == reflect.Pointer {
			field = field.Elem()
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldUpdatedAt] = timezone.Now()

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterBySearch matches search against any of the given columns of table.
func FilterBySearch(search, table string, fields ...string) dto.FilterGroup {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorOr}

	search = strings.TrimSpace(search)
	if search == "" {
		return group
	}

	for _, field := range fields {
		group.Filters = append(group.Filters, dto.Filter{
			ArgName:  "search_" + table + "_" + field,
			Field:    field,
			Value:    search,
			Operator: dto.FilterOperatorLike,
			Table:    table,
		})
	}

	return group
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery hashes the query params and any extra filter values into the key.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, extras ...any) string {
	payload, err := json.Marshal(struct {
		Params dto.QueryParams `json:"params"`
		Extras []any           `json:"extras"`
	}{params, extras})
	if err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to marshal cache key payload")
	}

	sum := sha256.Sum256(payload)

	return BuildCacheKey(prefix, "list", hex.EncodeToString(sum[:8]))
}

// InvalidateCaches clears every key under the given prefixes.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
			log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache")
		}
	}
}
