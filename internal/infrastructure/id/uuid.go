package id

import "github.com/google/uuid"

// UUIDGenerator issues random UUIDs for operation identifiers.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) NewID() string { return uuid.NewString() }
