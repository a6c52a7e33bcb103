package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/cairnapp/cairn/pkg/types"
)

// AuthResult is what a completed login returns: the bearer token and the
// signed-in profile. Persisting it is the session store's job.
type AuthResult struct {
	Token string         `json:"token"`
	User  types.UserInfo `json:"user_info"`
}

// Login exchanges a host-issued login code for a session.
func (c *Client) Login(ctx context.Context, code string) (AuthResult, error) {
	data, err := c.post(ctx, "/auth/login", map[string]string{"code": code})
	if err != nil {
		return AuthResult{}, err
	}
	var res AuthResult
	if err := json.Unmarshal(data, &res); err != nil {
		return AuthResult{}, fmt.Errorf("decode login response: %w", err)
	}
	return res, nil
}

// UserInfo fetches the signed-in user's profile.
func (c *Client) UserInfo(ctx context.Context) (types.UserInfo, error) {
	data, err := c.get(ctx, "/user/info", nil)
	if err != nil {
		return types.UserInfo{}, err
	}
	var u types.UserInfo
	if err := json.Unmarshal(data, &u); err != nil {
		return types.UserInfo{}, fmt.Errorf("decode user info: %w", err)
	}
	return u, nil
}

// Habits lists the user's habits.
func (c *Client) Habits(ctx context.Context) ([]types.Habit, error) {
	data, err := c.get(ctx, "/habits", nil)
	if err != nil {
		return nil, err
	}
	var habits []types.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, fmt.Errorf("decode habits: %w", err)
	}
	return habits, nil
}

// CreateHabit creates a habit and returns it with its assigned ID.
func (c *Client) CreateHabit(ctx context.Context, h types.Habit) (types.Habit, error) {
	data, err := c.post(ctx, "/habits", h)
	if err != nil {
		return types.Habit{}, err
	}
	var created types.Habit
	if err := json.Unmarshal(data, &created); err != nil {
		return types.Habit{}, fmt.Errorf("decode habit: %w", err)
	}
	return created, nil
}

// UpdateHabit replaces the habit with the given ID.
func (c *Client) UpdateHabit(ctx context.Context, id string, h types.Habit) error {
	_, err := c.put(ctx, "/habits/"+url.PathEscape(id), h)
	return err
}

// DeleteHabit deletes the habit with the given ID.
func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	return c.delete(ctx, "/habits/"+url.PathEscape(id))
}

// Checkins lists check-ins for a habit over the inclusive period
// start..end. An empty habitID lists check-ins across all habits.
func (c *Client) Checkins(ctx context.Context, habitID, start, end string) ([]types.Checkin, error) {
	q := url.Values{}
	if habitID != "" {
		q.Set("habit_id", habitID)
	}
	q.Set("start_date", start)
	q.Set("end_date", end)

	data, err := c.get(ctx, "/checkins", q)
	if err != nil {
		return nil, err
	}
	var checkins []types.Checkin
	if err := json.Unmarshal(data, &checkins); err != nil {
		return nil, fmt.Errorf("decode checkins: %w", err)
	}
	return checkins, nil
}

// CreateCheckin records a check-in. The remote deduplicates on the
// (habitId, date) natural key, so re-submission after a queue replay is
// safe.
func (c *Client) CreateCheckin(ctx context.Context, checkin types.Checkin) error {
	_, err := c.post(ctx, "/checkins", checkin)
	return err
}

// MakeupCheckin records a retroactive check-in for a past date, spending
// points per the makeup cost rule.
func (c *Client) MakeupCheckin(ctx context.Context, habitID, date string) error {
	_, err := c.post(ctx, "/checkins/makeup", map[string]string{
		"habit_id": habitID,
		"date":     date,
	})
	return err
}

// Statistics fetches the server-side aggregate for a period ("week",
// "month", "year"). The shape is owned by the remote; callers that need
// structure use the stats package over cached check-ins instead.
func (c *Client) Statistics(ctx context.Context, period string) (json.RawMessage, error) {
	q := url.Values{"period": {period}}
	return c.get(ctx, "/statistics", q)
}

// PointRecords pages through the user's point ledger.
func (c *Client) PointRecords(ctx context.Context, page, limit int) ([]types.PointRecord, error) {
	q := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	data, err := c.get(ctx, "/points", q)
	if err != nil {
		return nil, err
	}
	var records []types.PointRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode point records: %w", err)
	}
	return records, nil
}

// Rewards lists the items points can be exchanged for.
func (c *Client) Rewards(ctx context.Context) ([]types.Reward, error) {
	data, err := c.get(ctx, "/rewards", nil)
	if err != nil {
		return nil, err
	}
	var rewards []types.Reward
	if err := json.Unmarshal(data, &rewards); err != nil {
		return nil, fmt.Errorf("decode rewards: %w", err)
	}
	return rewards, nil
}

// ExchangeReward spends points on a reward.
func (c *Client) ExchangeReward(ctx context.Context, rewardID string) error {
	_, err := c.post(ctx, "/points/exchange", map[string]string{"reward_id": rewardID})
	return err
}
