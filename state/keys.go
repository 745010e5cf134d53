package state

import "strconv"

// Key layout. Each governance record family lives under its own disjoint
// section of the prefix so sections can never alias:
//
//	<prefix>:acl:<account>  string  mask blob (role.EncodeMask layout)
//	<prefix>:idx:<bit>      set     accounts with that bit set
//	<prefix>:paused         set     paused feature keys
//	<prefix>:staged         hash    stage_id, code_hash, blob, staged_at
//	<prefix>:code           hash    code_hash, blob, version
func (s *Store) accountKey(account string) string {
	return s.prefix + ":acl:" + account
}

func (s *Store) indexKey(bit int) string {
	return s.prefix + ":idx:" + strconv.Itoa(bit)
}

func (s *Store) pausedKey() string {
	return s.prefix + ":paused"
}

func (s *Store) stagedKey() string {
	return s.prefix + ":staged"
}

func (s *Store) codeKey() string {
	return s.prefix + ":code"
}
