package sim

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballpit/internal/config"
	"github.com/san-kum/ballpit/internal/dynamo"
)

var _ = Describe("Loop", func() {
	var (
		cfg   *config.Config
		sched *manualScheduler
		rec   *recorder
		loop  *Loop
		clock time.Time
	)

	newLoop := func() *Loop {
		l, err := New(cfg,
			WithScheduler(sched),
			WithRenderer(rec),
			WithClock(func() time.Time { return clock }))
		Expect(err).NotTo(HaveOccurred())
		return l
	}

	at := func(ms int) time.Time {
		return epoch.Add(time.Duration(ms) * time.Millisecond)
	}

	BeforeEach(func() {
		cfg = testConfig()
		sched = &manualScheduler{}
		rec = &recorder{}
		clock = epoch
	})

	Describe("construction", func() {
		It("rejects an invalid config", func() {
			cfg.Count = 0
			_, err := New(cfg)

			var ce *dynamo.ConfigurationError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Field).To(Equal("count"))
		})

		It("copies the config", func() {
			loop = newLoop()
			cfg.Count = 999
			Expect(loop.Config().Count).To(Equal(12))
		})

		It("refuses to step before Start", func() {
			loop = newLoop()
			Expect(loop.State()).To(Equal(Uninitialized))

			ran, err := loop.Step(0.01)
			Expect(err).To(MatchError(dynamo.ErrNotStarted))
			Expect(ran).To(BeFalse())
			Expect(loop.Frame(at(10))).To(BeFalse())
			Expect(rec.Len()).To(BeZero())
		})

		It("refuses to run before Start", func() {
			loop = newLoop()
			Expect(loop.Run(context.Background())).To(MatchError(dynamo.ErrNotStarted))
		})
	})

	Describe("Start", func() {
		BeforeEach(func() {
			loop = newLoop()
		})

		It("populates the configured number of bodies inside the volume", func() {
			Expect(loop.Start(800, 600)).To(Succeed())
			Expect(loop.State()).To(Equal(Running))

			Expect(loop.Frame(at(16))).To(BeTrue())
			snap := rec.Last()
			Expect(snap.Bodies).To(HaveLen(cfg.Count))
			for _, b := range snap.Bodies {
				Expect(b.Radius).To(BeNumerically(">=", cfg.MinSize))
				Expect(b.Radius).To(BeNumerically("<=", cfg.MaxSize))
				Expect(snap.Volume.Contains(b.Position, 1e-9)).To(BeTrue())
			}
		})

		It("rejects a degenerate surface", func() {
			Expect(loop.Start(0, 600)).To(MatchError(dynamo.ErrInvalidViewport))
			Expect(loop.State()).To(Equal(Uninitialized))
		})

		It("cannot be started twice", func() {
			Expect(loop.Start(800, 600)).To(Succeed())
			Expect(loop.Start(800, 600)).To(MatchError(dynamo.ErrAlreadyStarted))
		})

		It("passes lighting through untouched", func() {
			Expect(loop.Lighting()).To(Equal(cfg.Lighting))
		})
	})

	Describe("Frame", func() {
		BeforeEach(func() {
			loop = newLoop()
			Expect(loop.Start(800, 600)).To(Succeed())
		})

		It("steps by the wall-clock time since the last step", func() {
			Expect(loop.Frame(at(20))).To(BeTrue())
			Expect(loop.Frame(at(30))).To(BeTrue())

			snaps := rec.All()
			Expect(snaps).To(HaveLen(2))
			Expect(snaps[0].Time).To(BeNumerically("~", 0.020, 1e-9))
			Expect(snaps[1].Time).To(BeNumerically("~", 0.030, 1e-9))
			Expect(snaps[1].Step).To(Equal(uint64(2)))
		})

		It("clamps long gaps to max_dt", func() {
			Expect(loop.Frame(at(5000))).To(BeTrue())
			Expect(rec.Last().Time).To(BeNumerically("~", cfg.MaxDt, 1e-12))
		})

		It("skips a step when no time has passed", func() {
			Expect(loop.Frame(at(0))).To(BeTrue())
			Expect(loop.Frame(at(-5))).To(BeTrue())
			Expect(rec.Len()).To(BeZero())
		})
	})

	Describe("fixed step", func() {
		BeforeEach(func() {
			cfg.FixedStep = 0.01
			cfg.MaxSubsteps = 3
			loop = newLoop()
			Expect(loop.Start(800, 600)).To(Succeed())
		})

		It("runs whole substeps and carries the remainder", func() {
			loop.Frame(at(25))
			Expect(rec.Len()).To(Equal(2))

			loop.Frame(at(35))
			Expect(rec.Len()).To(Equal(3))
			Expect(rec.Last().Time).To(BeNumerically("~", 0.03, 1e-9))
		})

		It("caps substeps per frame", func() {
			loop.Frame(at(50))
			Expect(rec.Len()).To(Equal(3))
		})
	})

	Describe("Step", func() {
		BeforeEach(func() {
			loop = newLoop()
			Expect(loop.Start(800, 600)).To(Succeed())
		})

		It("ignores non-positive dt", func() {
			ran, err := loop.Step(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeFalse())

			ran, err = loop.Step(-1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeFalse())
			Expect(rec.Len()).To(BeZero())
		})

		It("clamps dt to max_dt", func() {
			ran, err := loop.Step(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeTrue())
			Expect(rec.Last().Time).To(BeNumerically("~", cfg.MaxDt, 1e-12))
		})
	})

	Describe("pausing", func() {
		BeforeEach(func() {
			loop = newLoop()
			Expect(loop.Start(800, 600)).To(Succeed())
			Expect(loop.Frame(at(10))).To(BeTrue())
		})

		It("does not step while hidden", func() {
			loop.SetVisible(false)

			Expect(loop.Frame(at(20))).To(BeFalse())
			Expect(loop.State()).To(Equal(Paused))
			Expect(loop.Frame(at(30))).To(BeFalse())

			ran, err := loop.Step(0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeFalse())
			Expect(rec.Len()).To(Equal(1))
		})

		It("resumes with a bounded first step", func() {
			loop.SetVisible(false)
			loop.Frame(at(20))

			loop.SetVisible(true)
			Expect(loop.Frame(at(60_000))).To(BeTrue())
			Expect(loop.State()).To(Equal(Running))

			snaps := rec.All()
			Expect(snaps).To(HaveLen(2))
			Expect(snaps[1].Time - snaps[0].Time).To(BeNumerically("<=", cfg.MaxDt+1e-12))
		})

		It("holds on an explicit pause even when visible", func() {
			loop.Pause()
			Expect(loop.State()).To(Equal(Paused))
			Expect(loop.Ready()).To(BeFalse())
			Expect(loop.Frame(at(20))).To(BeFalse())

			loop.Resume()
			Expect(loop.Ready()).To(BeTrue())
			Expect(loop.Frame(at(30))).To(BeTrue())
			Expect(rec.Len()).To(Equal(2))
		})

		It("keeps running when visibility becomes unavailable", func() {
			loop.SetVisible(false)
			loop.Gate().Unavailable()
			Expect(loop.Frame(at(20))).To(BeTrue())
			Expect(rec.Len()).To(Equal(2))
		})
	})

	Describe("Resize", func() {
		BeforeEach(func() {
			loop = newLoop()
			Expect(loop.Start(800, 600)).To(Succeed())
			loop.Frame(at(10))
		})

		It("applies the new volume at the next step and keeps bodies inside", func() {
			before := rec.Last().Volume
			Expect(loop.Resize(400, 600)).To(Succeed())
			Expect(rec.Last().Volume).To(Equal(before))

			loop.Frame(at(20))
			snap := rec.Last()
			Expect(snap.Volume.Size()[0]).To(BeNumerically("<", before.Size()[0]))
			for _, b := range snap.Bodies {
				Expect(snap.Volume.Contains(b.Position, 1e-9)).To(BeTrue())
			}
		})

		It("rejects a degenerate surface", func() {
			Expect(loop.Resize(100, 0)).To(MatchError(dynamo.ErrInvalidViewport))
		})
	})

	Describe("Dispose", func() {
		BeforeEach(func() {
			loop = newLoop()
			Expect(loop.Start(800, 600)).To(Succeed())
			loop.Frame(at(10))
		})

		It("stops every further step and snapshot", func() {
			loop.Dispose()
			Expect(loop.State()).To(Equal(Disposed))
			Eventually(loop.Done()).Should(BeClosed())

			loop.PointerMove(10, 10)
			loop.SetVisible(true)
			Expect(loop.Frame(at(20))).To(BeFalse())

			_, err := loop.Step(0.01)
			Expect(err).To(MatchError(dynamo.ErrDisposed))
			Expect(loop.Start(800, 600)).To(MatchError(dynamo.ErrDisposed))
			Expect(loop.Run(context.Background())).To(MatchError(dynamo.ErrDisposed))
			Expect(rec.Len()).To(Equal(1))
		})

		It("leaves no frame armed, even for a late request", func() {
			loop.Dispose()
			Expect(sched.Pending()).To(BeFalse())
			Expect(sched.Request()).To(BeNil())

			ts := NewTimerScheduler(1000)
			l, err := New(cfg, WithScheduler(ts))
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Start(800, 600)).To(Succeed())
			l.Dispose()
			Expect(ts.Request()).To(BeNil())
		})

		It("is idempotent", func() {
			loop.Dispose()
			loop.Dispose()
			Expect(loop.State()).To(Equal(Disposed))
		})

		It("drops renderers attached afterwards", func() {
			loop.Dispose()
			late := &recorder{}
			loop.Attach(late)
			loop.Frame(at(20))
			Expect(late.Len()).To(BeZero())
		})
	})

	Describe("Run", func() {
		var (
			ctx    context.Context
			cancel context.CancelFunc
			done   chan error
		)

		BeforeEach(func() {
			loop = newLoop()
			Expect(loop.Start(800, 600)).To(Succeed())
			ctx, cancel = context.WithCancel(context.Background())
			done = make(chan error, 1)
			go func() { done <- loop.Run(ctx) }()
			Eventually(sched.Pending).Should(BeTrue())
		})

		AfterEach(func() {
			cancel()
			Eventually(done).Should(Receive())
		})

		It("steps on each delivered frame and asks for the next", func() {
			Expect(sched.Fire(at(16))).To(BeTrue())
			Eventually(rec.Len).Should(Equal(1))
			Eventually(sched.Pending).Should(BeTrue())

			Expect(sched.Fire(at(32))).To(BeTrue())
			Eventually(rec.Len).Should(Equal(2))
		})

		It("stops requesting frames while hidden and restarts on visibility", func() {
			loop.SetVisible(false)
			Expect(sched.Fire(at(16))).To(BeTrue())
			Eventually(loop.State).Should(Equal(Paused))
			Consistently(sched.Pending, 50*time.Millisecond).Should(BeFalse())
			Expect(rec.Len()).To(BeZero())

			loop.SetVisible(true)
			Eventually(sched.Pending).Should(BeTrue())
			Expect(sched.Fire(at(5000))).To(BeTrue())
			Eventually(rec.Len).Should(Equal(1))
			Expect(rec.Last().Time).To(BeNumerically("<=", cfg.MaxDt+1e-12))
		})

		It("returns nil once disposed", func() {
			loop.Dispose()
			var err error
			Eventually(done).Should(Receive(&err))
			Expect(err).NotTo(HaveOccurred())
			Expect(sched.Fire(at(16))).To(BeFalse())
			Expect(rec.Len()).To(BeZero())

			done <- nil
		})

		It("disposes when the context ends", func() {
			cancel()
			var err error
			Eventually(done).Should(Receive(&err))
			Expect(err).To(MatchError(context.Canceled))
			Expect(loop.State()).To(Equal(Disposed))

			done <- nil
		})
	})
})
