// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

// Package cache provides the bounded in-memory cache used in front of
// recommendation lookups.
//
// LRUCache is a thread-safe least-recently-used cache with lazy TTL
// expiration. All operations are O(1): a hashmap indexes nodes of a
// doubly-linked list whose head is the most recently used entry.
//
//	c := cache.NewLRUCache[[]string](1000, 10*time.Minute)
//	c.Add("v3|Avatar|5", titles)
//	if hit, ok := c.Get("v3|Avatar|5"); ok {
//	    ...
//	}
package cache
