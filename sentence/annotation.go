package sentence

import "sort"

// AnnotationIndex answers covering queries over the typed annotations of a
// document.
type AnnotationIndex struct {
	anns []Annotation
}

// NewAnnotationIndex sorts the annotations by begin offset, longest first.
func NewAnnotationIndex(anns []Annotation) *AnnotationIndex {
	sorted := make([]Annotation, len(anns))
	copy(sorted, anns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Begin != sorted[j].Begin {
			return sorted[i].Begin < sorted[j].Begin
		}
		return sorted[i].Len() > sorted[j].Len()
	})
	return &AnnotationIndex{anns: sorted}
}

// Covering returns the annotations covering [begin, end), in index order.
func (ai *AnnotationIndex) Covering(begin, end int) []Annotation {
	if ai == nil {
		return nil
	}

	var res []Annotation
	for _, a := range ai.anns {
		if a.Begin > begin {
			break
		}
		if a.Covers(begin, end) {
			res = append(res, a)
		}
	}
	return res
}

// Largest returns the longest annotation covering the token that also has
// the token as its head. Annotations without a head are matched on covering
// alone.
func (ai *AnnotationIndex) Largest(head Token) (Annotation, bool) {
	var best Annotation
	found := false
	for _, a := range ai.Covering(head.Idx, head.End()) {
		if a.Head != 0 && a.Head != head.Id {
			continue
		}
		if !found || a.Len() > best.Len() {
			best = a
			found = true
		}
	}
	return best, found
}

// Types returns the distinct types of the annotations covering the token.
func (ai *AnnotationIndex) Types(head Token) []string {
	seen := map[string]bool{}
	var types []string
	for _, a := range ai.Covering(head.Idx, head.End()) {
		if a.Type == "" || seen[a.Type] {
			continue
		}
		seen[a.Type] = true
		types = append(types, a.Type)
	}
	return types
}
