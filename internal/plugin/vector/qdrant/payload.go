package qdrant

import (
	"fmt"
	"time"

	"github.com/autoweave/mem0-bridge/internal/model"
	pb "github.com/qdrant/go-client/qdrant"
)

// Payload field names for a stored memory point.
const (
	fieldMemory    = "memory"
	fieldUserID    = "user_id"
	fieldMetadata  = "metadata"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

func payloadFromRecord(rec model.Record) map[string]*pb.Value {
	payload := map[string]*pb.Value{
		fieldMemory:    stringValue(rec.Memory),
		fieldUserID:    stringValue(rec.UserID),
		fieldCreatedAt: stringValue(rec.CreatedAt.UTC().Format(time.RFC3339Nano)),
	}
	if rec.UpdatedAt != nil {
		payload[fieldUpdatedAt] = stringValue(rec.UpdatedAt.UTC().Format(time.RFC3339Nano))
	}
	if len(rec.Metadata) > 0 {
		payload[fieldMetadata] = valueFromAny(rec.Metadata)
	}
	return payload
}

func recordFromPayload(id string, payload map[string]*pb.Value) model.Record {
	rec := model.Record{ID: id}
	if v, ok := payload[fieldMemory]; ok {
		rec.Memory = v.GetStringValue()
	}
	if v, ok := payload[fieldUserID]; ok {
		rec.UserID = v.GetStringValue()
	}
	if v, ok := payload[fieldCreatedAt]; ok {
		if t, err := time.Parse(time.RFC3339Nano, v.GetStringValue()); err == nil {
			rec.CreatedAt = t
		}
	}
	if v, ok := payload[fieldUpdatedAt]; ok {
		if t, err := time.Parse(time.RFC3339Nano, v.GetStringValue()); err == nil {
			rec.UpdatedAt = &t
		}
	}
	if v, ok := payload[fieldMetadata]; ok {
		if m, ok := anyFromValue(v).(map[string]any); ok {
			rec.Metadata = m
		}
	}
	return rec
}

// valueFromAny converts a decoded-JSON Go value into a Qdrant payload value.
// Unhandled types fall back to their string rendering.
func valueFromAny(v any) *pb.Value {
	switch t := v.(type) {
	case nil:
		return &pb.Value{Kind: &pb.Value_NullValue{NullValue: pb.NullValue_NULL_VALUE}}
	case string:
		return stringValue(t)
	case bool:
		return &pb.Value{Kind: &pb.Value_BoolValue{BoolValue: t}}
	case float64:
		return &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: t}}
	case float32:
		return &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: float64(t)}}
	case int:
		return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(t)}}
	case int64:
		return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: t}}
	case map[string]any:
		fields := make(map[string]*pb.Value, len(t))
		for k, mv := range t {
			fields[k] = valueFromAny(mv)
		}
		return &pb.Value{Kind: &pb.Value_StructValue{StructValue: &pb.Struct{Fields: fields}}}
	case []any:
		values := make([]*pb.Value, len(t))
		for i, lv := range t {
			values[i] = valueFromAny(lv)
		}
		return &pb.Value{Kind: &pb.Value_ListValue{ListValue: &pb.ListValue{Values: values}}}
	default:
		return stringValue(fmt.Sprint(t))
	}
}

// anyFromValue is the inverse of valueFromAny.
func anyFromValue(v *pb.Value) any {
	switch k := v.GetKind().(type) {
	case *pb.Value_StringValue:
		return k.StringValue
	case *pb.Value_BoolValue:
		return k.BoolValue
	case *pb.Value_DoubleValue:
		return k.DoubleValue
	case *pb.Value_IntegerValue:
		return k.IntegerValue
	case *pb.Value_StructValue:
		fields := k.StructValue.GetFields()
		m := make(map[string]any, len(fields))
		for name, fv := range fields {
			m[name] = anyFromValue(fv)
		}
		return m
	case *pb.Value_ListValue:
		values := k.ListValue.GetValues()
		list := make([]any, len(values))
		for i, lv := range values {
			list[i] = anyFromValue(lv)
		}
		return list
	default:
		return nil
	}
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}
