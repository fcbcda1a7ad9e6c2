package cache_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/frololego/Prikoliga/internal/cache"
)

func TestCache(t *testing.T) {
	Convey("Given an enabled cache", t, func() {
		c := cache.New(true)

		Convey("Set then Get returns the stored body with a stable ETag", func() {
			etag := c.Set("matches:grouped", []byte(`{"a":1}`), time.Minute)
			So(etag, ShouldNotBeEmpty)

			data, gotTag, ok := c.Get("matches:grouped")
			So(ok, ShouldBeTrue)
			So(string(data), ShouldEqual, `{"a":1}`)
			So(gotTag, ShouldEqual, etag)
		})

		Convey("Expired entries are not served", func() {
			c.Set("k", []byte("v"), -time.Second)
			_, _, ok := c.Get("k")
			So(ok, ShouldBeFalse)
		})

		Convey("Invalidate drops the key", func() {
			c.Set("k", []byte("v"), time.Minute)
			c.Invalidate("k")
			_, _, ok := c.Get("k")
			So(ok, ShouldBeFalse)
		})

		Convey("Stats distinguish active and expired keys", func() {
			c.Set("live", []byte("v"), time.Minute)
			c.Set("dead", []byte("v"), -time.Second)
			stats := c.Stats()
			So(stats["enabled"], ShouldBeTrue)
			So(stats["active_keys"], ShouldEqual, 1)
			So(stats["expired_keys"], ShouldEqual, 1)
		})
	})

	Convey("Given a disabled cache", t, func() {
		c := cache.New(false)

		Convey("Set still computes an ETag but stores nothing", func() {
			etag := c.Set("k", []byte("v"), time.Minute)
			So(etag, ShouldEqual, cache.ComputeETag([]byte("v")))
			_, _, ok := c.Get("k")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestComputeETag(t *testing.T) {
	Convey("ETags are quoted, deterministic, and content-sensitive", t, func() {
		a := cache.ComputeETag([]byte("body"))
		So(a, ShouldStartWith, `"`)
		So(a, ShouldEndWith, `"`)
		So(cache.ComputeETag([]byte("body")), ShouldEqual, a)
		So(cache.ComputeETag([]byte("other")), ShouldNotEqual, a)
	})
}
