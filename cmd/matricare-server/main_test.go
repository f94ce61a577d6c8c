package main

import (
	"testing"

	"github.com/matricare/api/internal/domain/consultation"
)

func TestDoctorRegistryAdapter_SatisfiesInterface(t *testing.T) {
	var _ consultation.DoctorRegistry = (*doctorRegistryAdapter)(nil)
}
