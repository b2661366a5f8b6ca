package model

// CanonicalPair 将无序用户对排成 (low, high)，好友与连续天数都按此键存一行
func CanonicalPair(a, b string) (low, high string) {
	if a <= b {
		return a, b
	}
	return b, a
}
