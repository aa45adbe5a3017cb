// Package cache provides a small thread-safe LRU cache.
//
//	c := cache.New[string, *Asset](4)
//	c.Put("tones", a)
//	a, ok := c.Get("tones")
package cache
