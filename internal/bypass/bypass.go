package bypass

// Member is the subset of the host platform's member object the resolver
// needs.
type Member interface {
	MemberID() int64
	Name() string
	IsAdmin() bool
	Groups() []int64
}

// ShouldBypass reports whether the member skips spam checking entirely.
// Administrators always bypass; otherwise the member's groups are matched
// against the configured bypass set. An empty configured set never matches.
func ShouldBypass(member Member, bypassGroups []int64) bool {
	if member == nil {
		return false
	}
	if member.IsAdmin() {
		return true
	}
	if len(bypassGroups) == 0 {
		return false
	}

	allowed := make(map[int64]struct{}, len(bypassGroups))
	for _, id := range bypassGroups {
		allowed[id] = struct{}{}
	}
	for _, id := range member.Groups() {
		if _, ok := allowed[id]; ok {
			return true
		}
	}
	return false
}
