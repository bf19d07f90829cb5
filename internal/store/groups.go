package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const joinCodeLength = 6

// join codes exclude easily-confused characters (0/O, 1/I)
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CreateGroup creates a study group with a fresh join code and enrolls the
// creator as its first member.
func (s *Store) CreateGroup(ctx context.Context, name, createdBy string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("create group: empty name")
	}
	now := time.Now().UTC()
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create group tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var code string
	for attempt := 0; attempt < 5; attempt++ {
		code, err = generateJoinCode()
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO groups (id, name, join_code, created_by, created_at)
             VALUES (?, ?, ?, ?, ?)`,
			id, name, code, createdBy, timestamp(now),
		)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("insert group: %w", err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)`,
		id, createdBy, timestamp(now),
	)
	if err != nil {
		return nil, fmt.Errorf("enroll creator: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create group: %w", err)
	}

	return &Group{ID: id, Name: name, JoinCode: code, CreatedBy: createdBy, CreatedAt: now}, nil
}

// JoinGroup enrolls a user into the group matching the join code. Joining a
// group the user already belongs to returns ErrDuplicate.
func (s *Store) JoinGroup(ctx context.Context, joinCode, userID string) (*Group, error) {
	group, err := s.GroupByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)`,
		group.ID, userID, timestamp(time.Now().UTC()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("join group %s: %w", group.ID, ErrDuplicate)
		}
		return nil, fmt.Errorf("join group: %w", err)
	}
	return group, nil
}

// GroupByID fetches a group by identifier.
func (s *Store) GroupByID(ctx context.Context, id string) (*Group, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = ?`, id)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return group, nil
}

// GroupByJoinCode fetches a group by its join code, case-insensitively.
func (s *Store) GroupByJoinCode(ctx context.Context, joinCode string) (*Group, error) {
	code := strings.ToUpper(strings.TrimSpace(joinCode))
	row := s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE join_code = ?`, code)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("join code %s: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group by code: %w", err)
	}
	return group, nil
}

// GroupsForUser lists the groups a user belongs to, oldest membership first.
func (s *Store) GroupsForUser(ctx context.Context, userID string) ([]*Group, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT g.id, g.name, g.join_code, g.created_by, g.created_at
         FROM groups g
         JOIN group_members m ON m.group_id = g.id
         WHERE m.user_id = ?
         ORDER BY m.joined_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// GroupMembers lists memberships for a group in join order.
func (s *Store) GroupMembers(ctx context.Context, groupID string) ([]*GroupMember, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT group_id, user_id, joined_at FROM group_members WHERE group_id = ? ORDER BY joined_at`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		var (
			member   GroupMember
			joinedAt string
		)
		if err := rows.Scan(&member.GroupID, &member.UserID, &joinedAt); err != nil {
			return nil, err
		}
		if joined, err := parseTimeString(joinedAt); err == nil {
			member.JoinedAt = joined
		}
		members = append(members, &member)
	}
	return members, rows.Err()
}

// IsMember reports whether the user belongs to the group.
func (s *Store) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var count int
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return count > 0, nil
}

// LeaveGroup removes a user's membership.
func (s *Store) LeaveGroup(ctx context.Context, groupID, userID string) error {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("leave group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("membership %s/%s: %w", groupID, userID, ErrNotFound)
	}
	return nil
}

const groupColumns = "id, name, join_code, created_by, created_at"

func scanGroup(scanner interface{ Scan(dest ...any) error }) (*Group, error) {
	var (
		group      Group
		createdRaw string
	)
	if err := scanner.Scan(&group.ID, &group.Name, &group.JoinCode, &group.CreatedBy, &createdRaw); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		group.CreatedAt = created
	}
	return &group, nil
}

func generateJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate join code: %w", err)
	}
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf), nil
}
