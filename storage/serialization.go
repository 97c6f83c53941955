// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/vehiclematch/core"
)

// float32SliceSer serializes embedding vectors.
var float32SliceSer = ord.NewSliceSer[float32](raw.Float32)

// MarshalVehicleRecord serializes a VehicleRecord to bytes.
// Timestamps are stored as Unix microseconds.
func MarshalVehicleRecord(record *core.VehicleRecord) []byte {
	insertedAt := record.InsertedAt.UnixMicro()
	size := ord.String.Size(record.ID) +
		ord.String.Size(record.Description) +
		varint.Int64.Size(insertedAt)
	buf := make([]byte, size)
	n := ord.String.Marshal(record.ID, buf)
	n += ord.String.Marshal(record.Description, buf[n:])
	varint.Int64.Marshal(insertedAt, buf[n:])
	return buf
}

// UnmarshalVehicleRecord deserializes a VehicleRecord from bytes.
func UnmarshalVehicleRecord(data []byte) (*core.VehicleRecord, error) {
	id, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	description, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m
	insertedAt, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &core.VehicleRecord{
		ID:          id,
		Description: description,
		InsertedAt:  time.UnixMicro(insertedAt).UTC(),
	}, nil
}

// MarshalVectorEntry serializes a VectorEntry to bytes.
func MarshalVectorEntry(entry *VectorEntry) []byte {
	size := ord.String.Size(entry.ID) +
		float32SliceSer.Size(entry.Vector) +
		varint.Uint64.Size(entry.Fingerprint) +
		ord.String.Size(entry.Description)
	buf := make([]byte, size)
	n := ord.String.Marshal(entry.ID, buf)
	n += float32SliceSer.Marshal(entry.Vector, buf[n:])
	n += varint.Uint64.Marshal(entry.Fingerprint, buf[n:])
	ord.String.Marshal(entry.Description, buf[n:])
	return buf
}

// UnmarshalVectorEntry deserializes a VectorEntry from bytes.
func UnmarshalVectorEntry(data []byte) (*VectorEntry, error) {
	id, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	vector, m, err := float32SliceSer.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m
	fingerprint, m, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m
	description, _, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &VectorEntry{
		ID:          id,
		Vector:      vector,
		Fingerprint: fingerprint,
		Description: description,
	}, nil
}
