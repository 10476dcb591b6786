package region

// Stats summarizes a Region-Archive's sector utilization (SPEC_FULL
// §4.D): useful for the bulk tooling that did not exist in the distilled
// spec, but never part of the bit-exact wire format itself.
type Stats struct {
	PopulatedSlots int
	TotalSectors   int
	PaddingBytes   int
}

// Stats computes sector utilization for the archive's current location
// table. For a freshly built (unsaved) in-memory Archive, the location
// table is empty until the first Save; Stats on such an archive reports
// zero PopulatedSlots and PaddingBytes, and a TotalSectors of 2 (the two
// header sectors, which TotalSectors always includes).
func (a *Archive) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	var s Stats
	for slot := range SlotCount {
		loc := a.locations[slot]
		if loc.empty() {
			continue
		}

		s.PopulatedSlots++
		s.TotalSectors += int(loc.sectorCount)

		occupied := int(a.payloadLens[slot]) + 4 // spec.md §4.D: blob size is payload_length + 4
		s.PaddingBytes += int(loc.sectorCount)*SectorSize - occupied
	}

	s.TotalSectors += firstDataSector

	return s
}
