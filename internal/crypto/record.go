package crypto

import (
	"fmt"
	"log/slog"
)

// fieldSpec names one sensitive field of a record type. Searchable fields
// additionally get a `<name>_hash` column for equality lookups.
type fieldSpec struct {
	Name       string
	Searchable bool
}

// sensitiveFields lists, per record type, which fields are encrypted at rest.
var sensitiveFields = map[string][]fieldSpec{
	"patient": {
		{Name: "ssn", Searchable: true},
		{Name: "phone", Searchable: true},
		{Name: "email", Searchable: true},
		{Name: "address"},
		{Name: "medical_record_number", Searchable: true},
		{Name: "emergency_contact"},
	},
	"insurance": {
		{Name: "policy_number", Searchable: true},
		{Name: "group_number"},
	},
	"billing": {
		{Name: "card_holder"},
		{Name: "bank_account"},
	},
}

// RecordCodec applies field encryption to whole records based on the
// per-type sensitive-field registry.
type RecordCodec struct {
	cipher *FieldCipher
	log    *slog.Logger
}

// NewRecordCodec creates a RecordCodec around a FieldCipher.
func NewRecordCodec(cipher *FieldCipher, logger *slog.Logger) *RecordCodec {
	return &RecordCodec{
		cipher: cipher,
		log:    logger.With("component", "record_codec"),
	}
}

// EncryptRecord encrypts the configured sensitive fields of a record in a
// shallow copy and adds `<field>_hash` entries for searchable fields.
// Unknown record types pass through untouched. Non-string field values are
// rejected: sensitive fields are stored as strings by contract.
func (rc *RecordCodec) EncryptRecord(fields map[string]any, recordType string) (map[string]any, error) {
	specs, ok := sensitiveFields[recordType]
	if !ok {
		return fields, nil
	}

	out := make(map[string]any, len(fields)+len(specs))
	for k, v := range fields {
		out[k] = v
	}

	for _, spec := range specs {
		raw, present := out[spec.Name]
		if !present || raw == nil {
			continue
		}
		value, isString := raw.(string)
		if !isString {
			return nil, fmt.Errorf("field %q of %s is %T, want string", spec.Name, recordType, raw)
		}

		out[spec.Name] = rc.cipher.EncryptString(value)
		if spec.Searchable {
			out[spec.Name+"_hash"] = rc.cipher.HashForSearch(value)
		}
	}

	return out, nil
}

// DecryptRecord reverses EncryptRecord. A field that fails to decrypt is
// logged and kept as-is rather than aborting the whole record: one corrupt
// column must not make the rest of a patient chart unreadable.
func (rc *RecordCodec) DecryptRecord(fields map[string]any, recordType string) map[string]any {
	specs, ok := sensitiveFields[recordType]
	if !ok {
		return fields
	}

	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}

	for _, spec := range specs {
		raw, present := out[spec.Name]
		if !present || raw == nil {
			continue
		}
		value, isString := raw.(string)
		if !isString {
			continue
		}

		plain, err := rc.cipher.DecryptString(value)
		if err != nil {
			rc.log.Warn("field decrypt failed, keeping raw value",
				slog.String("record_type", recordType),
				slog.String("field", spec.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		out[spec.Name] = plain
	}

	return out
}
