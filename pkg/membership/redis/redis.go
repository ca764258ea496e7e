// Package redis implements a membership store on Redis.
//
// Records are kept in three key families under a configurable prefix:
//
//	{prefix}page:{id}                hash with fields ns and title
//	{prefix}title:{ns}:{title}       string holding the page id
//	{prefix}catlinks:{title}         set of member page ids
//
// The aggregation runs client-side over pipelined reads and matches the
// SQL backends: only members whose page exists are counted, and a
// subcategory never counts itself.
package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/categorycloud/pkg/errors"
	"github.com/matzehuels/categorycloud/pkg/membership"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "categorycloud:"

// Store queries a Redis server.
type Store struct {
	client *redis.Client
	prefix string
}

// New wraps a client. An empty prefix selects DefaultPrefix. The store takes
// ownership of client and closes it in Close.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Open connects to the server named by a redis:// or rediss:// URL.
func Open(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping redis")
	}
	return New(client, prefix), nil
}

func (s *Store) pageKey(id int64) string {
	return s.prefix + "page:" + strconv.FormatInt(id, 10)
}

func (s *Store) titleKey(ns int, title string) string {
	return s.prefix + "title:" + strconv.Itoa(ns) + ":" + title
}

func (s *Store) linksKey(title string) string {
	return s.prefix + "catlinks:" + title
}

type subcategory struct {
	id    int64
	title string
}

// Subcategories implements [membership.Store].
func (s *Store) Subcategories(ctx context.Context, category string, order membership.Order) ([]membership.Entry, error) {
	memberIDs, err := s.members(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(memberIDs) == 0 {
		return []membership.Entry{}, nil
	}

	subs, err := s.categoryPages(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return []membership.Entry{}, nil
	}

	// Members of every subcategory, fetched in one round trip.
	setCmds := make([]*redis.StringSliceCmd, len(subs))
	if _, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, sub := range subs {
			setCmds[i] = pipe.SMembers(ctx, s.linksKey(sub.title))
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read subcategory members")
	}

	subMembers := make([][]int64, len(subs))
	seen := make(map[int64]bool)
	for i, cmd := range setCmds {
		ids, err := parseIDs(cmd.Val())
		if err != nil {
			return nil, err
		}
		subMembers[i] = ids
		for _, id := range ids {
			seen[id] = true
		}
	}

	exists, err := s.existing(ctx, seen)
	if err != nil {
		return nil, err
	}

	entries := make([]membership.Entry, 0, len(subs))
	for i, sub := range subs {
		n := 0
		for _, id := range subMembers[i] {
			if id != sub.id && exists[id] {
				n++
			}
		}
		if n > 0 {
			entries = append(entries, membership.Entry{Name: sub.title, Count: n})
		}
	}
	membership.SortEntries(entries, order)
	return entries, nil
}

func (s *Store) members(ctx context.Context, title string) ([]int64, error) {
	vals, err := s.client.SMembers(ctx, s.linksKey(title)).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read members of %s", title)
	}
	return parseIDs(vals)
}

// categoryPages resolves ids to pages and keeps those in the category
// namespace. Missing pages are skipped.
func (s *Store) categoryPages(ctx context.Context, ids []int64) ([]subcategory, error) {
	cmds := make([]*redis.SliceCmd, len(ids))
	if _, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HMGet(ctx, s.pageKey(id), "ns", "title")
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read pages")
	}

	var subs []subcategory
	for i, cmd := range cmds {
		vals := cmd.Val()
		if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
			continue
		}
		ns, _ := vals[0].(string)
		title, _ := vals[1].(string)
		if ns != strconv.Itoa(membership.NamespaceCategory) {
			continue
		}
		subs = append(subs, subcategory{id: ids[i], title: title})
	}
	return subs, nil
}

func (s *Store) existing(ctx context.Context, ids map[int64]bool) (map[int64]bool, error) {
	order := make([]int64, 0, len(ids))
	for id := range ids {
		order = append(order, id)
	}
	cmds := make([]*redis.IntCmd, len(order))
	if _, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range order {
			cmds[i] = pipe.Exists(ctx, s.pageKey(id))
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "check pages")
	}

	exists := make(map[int64]bool, len(order))
	for i, cmd := range cmds {
		exists[order[i]] = cmd.Val() > 0
	}
	return exists, nil
}

func parseIDs(vals []string) ([]int64, error) {
	ids := make([]int64, 0, len(vals))
	for _, v := range vals {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "bad page id %q", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Load implements [membership.Loader]. Pages that already exist by id or by
// (namespace, title) are rejected before anything is written; the writes
// themselves go out in a single MULTI/EXEC block.
func (s *Store) Load(ctx context.Context, ds *membership.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	if len(ds.Pages) > 0 {
		cmds := make([]*redis.IntCmd, len(ds.Pages))
		if _, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, p := range ds.Pages {
				cmds[i] = pipe.Exists(ctx, s.pageKey(p.ID), s.titleKey(p.Namespace, p.Title))
			}
			return nil
		}); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "check pages")
		}
		for i, cmd := range cmds {
			if cmd.Val() > 0 {
				p := ds.Pages[i]
				return errors.New(errors.ErrCodeStore, "page %d (%d:%s) already exists", p.ID, p.Namespace, p.Title)
			}
		}
	}

	if _, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range ds.Pages {
			pipe.HSet(ctx, s.pageKey(p.ID), "ns", p.Namespace, "title", p.Title)
			pipe.Set(ctx, s.titleKey(p.Namespace, p.Title), p.ID, 0)
		}
		for _, l := range ds.Links {
			pipe.SAdd(ctx, s.linksKey(l.To), l.From)
		}
		return nil
	}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write dataset")
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

var (
	_ membership.Store  = (*Store)(nil)
	_ membership.Loader = (*Store)(nil)
)
