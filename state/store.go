package state

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is an exported constant or variable used by the governance engine.
var ErrStoreUnavailable = errors.New("state store unavailable")

// ErrWouldLockOut is returned when a revoke would clear the last remaining
// super-admin.
var ErrWouldLockOut = errors.New("revoke would remove last super-admin")

// ErrNotStaged is returned when a commit targets an empty staged slot.
var ErrNotStaged = errors.New("no staged code")

// ErrTooEarly is returned when a commit is attempted before the minimum
// staging delay has elapsed.
var ErrTooEarly = errors.New("staging delay not elapsed")

// ErrHashMismatch is returned when the expected code hash does not match the
// staged code hash.
var ErrHashMismatch = errors.New("staged code hash mismatch")

const (
	commitStatusNotStaged    int64 = -1
	commitStatusTooEarly     int64 = -2
	commitStatusHashMismatch int64 = -3
	commitStatusCommitted    int64 = 1
)

// maskBitLib locates and flips bits inside the persisted mask blob. The blob
// is the big-endian word layout written by role.EncodeMask: bit i lives in
// word i/64, and within the 8 serialized bytes of that word at byte
// 7-(i%64)/8, value 2^(i%8).
const maskBitLib = `
local function bit_index(bit)
  local word = math.floor(bit / 64)
  local rem = bit % 64
  return word * 8 + (7 - math.floor(rem / 8)) + 1
end

local function bit_value(bit)
  return 2 ^ (bit % 8)
end

local function has_bit(blob, bit)
  local b = string.byte(blob, bit_index(bit))
  return math.floor(b / bit_value(bit)) % 2 == 1
end

local function flip_bit(blob, bit, on)
  local i = bit_index(bit)
  local b = string.byte(blob, i)
  if on then
    b = b + bit_value(bit)
  else
    b = b - bit_value(bit)
  end
  return string.sub(blob, 1, i - 1) .. string.char(b) .. string.sub(blob, i + 1)
end

local function is_zero(blob)
  return blob == string.rep(string.char(0), #blob)
end
`

const setBitScript = maskBitLib + `
local bit = tonumber(ARGV[1])
local masklen = tonumber(ARGV[2])

local blob = redis.call("GET", KEYS[1])
if not blob or #blob ~= masklen then
  blob = string.rep(string.char(0), masklen)
end

local changed = 0
if not has_bit(blob, bit) then
  blob = flip_bit(blob, bit, true)
  redis.call("SET", KEYS[1], blob)
  changed = 1
end
redis.call("SADD", KEYS[2], ARGV[3])
return changed
`

var setBitLua = redis.NewScript(setBitScript)

const clearBitScript = maskBitLib + `
local bit = tonumber(ARGV[1])
local masklen = tonumber(ARGV[2])

if ARGV[4] == "1" then
  if redis.call("SISMEMBER", KEYS[2], ARGV[3]) == 1 and redis.call("SCARD", KEYS[2]) <= 1 then
    return -1
  end
end

local blob = redis.call("GET", KEYS[1])
local changed = 0
if blob and #blob == masklen and has_bit(blob, bit) then
  blob = flip_bit(blob, bit, false)
  if is_zero(blob) then
    redis.call("DEL", KEYS[1])
  else
    redis.call("SET", KEYS[1], blob)
  end
  changed = 1
end
redis.call("SREM", KEYS[2], ARGV[3])
return changed
`

var clearBitLua = redis.NewScript(clearBitScript)

const stageCodeScript = `
redis.call("DEL", KEYS[1])
redis.call("HSET", KEYS[1],
  "stage_id", ARGV[1],
  "code_hash", ARGV[2],
  "blob", ARGV[3],
  "staged_at", ARGV[4])
return 1
`

var stageCodeLua = redis.NewScript(stageCodeScript)

const commitCodeScript = `
local hash = redis.call("HGET", KEYS[1], "code_hash")
if not hash then
  return {-1, 0, ""}
end

local staged_at = tonumber(redis.call("HGET", KEYS[1], "staged_at"))
if (tonumber(ARGV[2]) - staged_at) < tonumber(ARGV[3]) then
  return {-2, 0, ""}
end

if hash ~= ARGV[1] then
  return {-3, 0, ""}
end

local blob = redis.call("HGET", KEYS[1], "blob")
local prev_version = tonumber(redis.call("HGET", KEYS[2], "version") or "0")
local prev_hash = redis.call("HGET", KEYS[2], "code_hash") or ""

redis.call("HSET", KEYS[2],
  "blob", blob,
  "code_hash", hash,
  "version", prev_version + 1)
redis.call("DEL", KEYS[1])

return {1, prev_version, prev_hash}
`

var commitCodeLua = redis.NewScript(commitCodeScript)

const discardCodeScript = `
local existed = redis.call("EXISTS", KEYS[1])
redis.call("DEL", KEYS[1])
return existed
`

var discardCodeLua = redis.NewScript(discardCodeScript)

// Store persists governance records in Redis under a configurable key prefix.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore describes the newstore operation and its observable behavior.
//
// NewStore may return an error when input validation, dependency calls, or security checks fail.
// NewStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// AccountMask returns the persisted mask blob for an account, or nil when the
// account has no record (the empty bitset).
func (s *Store) AccountMask(ctx context.Context, account string) ([]byte, error) {
	blob, err := s.client.Get(ctx, s.accountKey(account)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return blob, nil
}

// SetRoleBit sets one bit in the account's mask and adds the account to the
// bit's reverse index, atomically. Returns whether the bit was newly set.
func (s *Store) SetRoleBit(ctx context.Context, account string, bit, maskLen int) (bool, error) {
	res, err := setBitLua.Run(ctx, s.client,
		[]string{s.accountKey(account), s.indexKey(bit)},
		bit, maskLen, account,
	).Int64()
	if err != nil {
		return false, storeErr(err)
	}
	return res == 1, nil
}

// ClearRoleBit clears one bit in the account's mask and removes the account
// from the bit's reverse index, atomically. The record is deleted when the
// mask reaches all-zero. With guardLockout set, the script refuses to clear
// the last remaining member of the bit's index and returns ErrWouldLockOut.
func (s *Store) ClearRoleBit(ctx context.Context, account string, bit, maskLen int, guardLockout bool) (bool, error) {
	guard := "0"
	if guardLockout {
		guard = "1"
	}

	res, err := clearBitLua.Run(ctx, s.client,
		[]string{s.accountKey(account), s.indexKey(bit)},
		bit, maskLen, account, guard,
	).Int64()
	if err != nil {
		return false, storeErr(err)
	}
	if res == -1 {
		return false, ErrWouldLockOut
	}
	return res == 1, nil
}

// BitMembers returns the accounts in a bit's reverse index, sorted for
// deterministic pagination.
func (s *Store) BitMembers(ctx context.Context, bit int) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.indexKey(bit)).Result()
	if err != nil {
		return nil, storeErr(err)
	}
	sort.Strings(members)
	return members, nil
}

// BitMemberCount returns the size of a bit's reverse index.
func (s *Store) BitMemberCount(ctx context.Context, bit int) (int64, error) {
	n, err := s.client.SCard(ctx, s.indexKey(bit)).Result()
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

// AddPaused adds a feature key to the paused set. Returns whether the key was
// newly paused.
func (s *Store) AddPaused(ctx context.Context, key string) (bool, error) {
	n, err := s.client.SAdd(ctx, s.pausedKey(), key).Result()
	if err != nil {
		return false, storeErr(err)
	}
	return n == 1, nil
}

// RemovePaused removes a feature key from the paused set. Returns whether the
// key was present.
func (s *Store) RemovePaused(ctx context.Context, key string) (bool, error) {
	n, err := s.client.SRem(ctx, s.pausedKey(), key).Result()
	if err != nil {
		return false, storeErr(err)
	}
	return n == 1, nil
}

// IsPausedKey reports whether a feature key is in the paused set.
func (s *Store) IsPausedKey(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.pausedKey(), key).Result()
	if err != nil {
		return false, storeErr(err)
	}
	return ok, nil
}

// PausedKeys returns the paused set, sorted.
func (s *Store) PausedKeys(ctx context.Context) ([]string, error) {
	keys, err := s.client.SMembers(ctx, s.pausedKey()).Result()
	if err != nil {
		return nil, storeErr(err)
	}
	sort.Strings(keys)
	return keys, nil
}

// StageCode overwrites the staged-upgrade slot with a new record.
func (s *Store) StageCode(ctx context.Context, rec StagedRecord) error {
	_, err := stageCodeLua.Run(ctx, s.client,
		[]string{s.stagedKey()},
		rec.StageID, rec.CodeHash, rec.Blob, rec.StagedAtMs,
	).Result()
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// StagedCode returns the staged-upgrade slot, or nil when the slot is empty.
func (s *Store) StagedCode(ctx context.Context) (*StagedRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.stagedKey()).Result()
	if err != nil {
		return nil, storeErr(err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	stagedAt, err := strconv.ParseInt(fields["staged_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt staged slot: %v", err)
	}

	return &StagedRecord{
		StageID:    fields["stage_id"],
		CodeHash:   fields["code_hash"],
		Blob:       []byte(fields["blob"]),
		StagedAtMs: stagedAt,
	}, nil
}

// CommitCode validates the staged slot (presence, boundary-inclusive delay,
// hash binding) and, in the same atomic step, replaces the live code record,
// bumps its version, and clears the slot. On a validation failure the slot is
// untouched. Returns the previous live version and code hash.
func (s *Store) CommitCode(ctx context.Context, expectedHash string, nowMs, delayMs int64) (uint64, string, error) {
	res, err := commitCodeLua.Run(ctx, s.client,
		[]string{s.stagedKey(), s.codeKey()},
		expectedHash, nowMs, delayMs,
	).Slice()
	if err != nil {
		return 0, "", storeErr(err)
	}
	if len(res) != 3 {
		return 0, "", fmt.Errorf("unexpected commit script reply: %v", res)
	}

	status, _ := res[0].(int64)
	switch status {
	case commitStatusCommitted:
		prevVersion, _ := res[1].(int64)
		prevHash, _ := res[2].(string)
		return uint64(prevVersion), prevHash, nil
	case commitStatusNotStaged:
		return 0, "", ErrNotStaged
	case commitStatusTooEarly:
		return 0, "", ErrTooEarly
	case commitStatusHashMismatch:
		return 0, "", ErrHashMismatch
	default:
		return 0, "", fmt.Errorf("unexpected commit script status: %d", status)
	}
}

// DiscardCode clears the staged slot without deploying. Returns whether a
// staged record existed.
func (s *Store) DiscardCode(ctx context.Context) (bool, error) {
	res, err := discardCodeLua.Run(ctx, s.client, []string{s.stagedKey()}).Int64()
	if err != nil {
		return false, storeErr(err)
	}
	return res == 1, nil
}

// LiveCode returns the live code record, or nil when no code has been
// committed yet.
func (s *Store) LiveCode(ctx context.Context) (*CodeRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.codeKey()).Result()
	if err != nil {
		return nil, storeErr(err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	version, err := strconv.ParseUint(fields["version"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt code record: %v", err)
	}

	return &CodeRecord{
		CodeHash: fields["code_hash"],
		Blob:     []byte(fields["blob"]),
		Version:  version,
	}, nil
}

// Ping verifies backend connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return storeErr(err)
	}
	return nil
}
