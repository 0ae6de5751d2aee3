package ledger

// Merge concatenates newly extracted records onto the existing ledger and
// collapses duplicates, keeping the first-seen copy of each transaction.
// Existing records always come first, so a re-imported document can never
// displace what is already stored.
func Merge(existing, incoming []Record) []Record {
	combined := make([]Record, 0, len(existing)+len(incoming))
	combined = append(combined, existing...)
	combined = append(combined, incoming...)
	return Dedupe(combined)
}

// Dedupe removes records whose (date, description, amount, kind) key was
// already seen, preserving first occurrence order.
func Dedupe(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		key := r.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// RemoveAt returns a copy of records with the entry at position removed.
// Position addresses the currently loaded snapshot; callers must pass the
// most recently loaded view (single-writer assumption).
func RemoveAt(records []Record, position int) ([]Record, bool) {
	if position < 0 || position >= len(records) {
		return records, false
	}
	out := make([]Record, 0, len(records)-1)
	out = append(out, records[:position]...)
	out = append(out, records[position+1:]...)
	return out, true
}
