package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

func expectEvent(
	evt *MockEvent,
	t VTimeInSec,
	handler Handler,
	secondary bool,
) {
	evt.EXPECT().Time().Return(t).AnyTimes()
	evt.EXPECT().Handler().Return(handler).AnyTimes()
	evt.EXPECT().IsSecondary().Return(secondary).AnyTimes()
}

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should dispatch events in time order", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := NewMockEvent(mockCtrl)
		evt2 := NewMockEvent(mockCtrl)
		evt3 := NewMockEvent(mockCtrl)
		evt4 := NewMockEvent(mockCtrl)

		expectEvent(evt1, 4.0, handler1, false)
		expectEvent(evt2, 2.0, handler2, false)
		expectEvent(evt3, 3.0, handler1, false)
		expectEvent(evt4, 5.0, handler1, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2).Do(func(e Event) {
			engine.Schedule(evt3)
			engine.Schedule(evt4)
		})
		handleEvt3 := handler1.EXPECT().
			Handle(evt3).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().
			Handle(evt1).After(handleEvt3)
		handler1.EXPECT().
			Handle(evt4).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		err := engine.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5.0)))
	})

	It("should dispatch same-time events in insertion order", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := NewMockEvent(mockCtrl)
		evt2 := NewMockEvent(mockCtrl)
		evt3 := NewMockEvent(mockCtrl)

		expectEvent(evt1, 2.0, handler, false)
		expectEvent(evt2, 2.0, handler, false)
		expectEvent(evt3, 2.0, handler, false)

		handleEvt1 := handler.EXPECT().Handle(evt1)
		handleEvt2 := handler.EXPECT().Handle(evt2).After(handleEvt1)
		handler.EXPECT().Handle(evt3).After(handleEvt2)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		engine.Run()
	})

	It("should dispatch secondary events after same-time primary events",
		func() {
			handler := NewMockHandler(mockCtrl)
			secondary := NewMockEvent(mockCtrl)
			primary := NewMockEvent(mockCtrl)

			expectEvent(secondary, 2.0, handler, true)
			expectEvent(primary, 2.0, handler, false)

			handlePrimary := handler.EXPECT().Handle(primary)
			handler.EXPECT().Handle(secondary).After(handlePrimary)

			engine.Schedule(secondary)
			engine.Schedule(primary)

			engine.Run()
		})

	It("should dispatch an earlier secondary event before a later primary",
		func() {
			handler := NewMockHandler(mockCtrl)
			secondary := NewMockEvent(mockCtrl)
			primary := NewMockEvent(mockCtrl)

			expectEvent(secondary, 1.0, handler, true)
			expectEvent(primary, 2.0, handler, false)

			handleSecondary := handler.EXPECT().Handle(secondary)
			handler.EXPECT().Handle(primary).After(handleSecondary)

			engine.Schedule(primary)
			engine.Schedule(secondary)

			engine.Run()
		})

	It("should reject events due before the current time", func() {
		handler := NewMockHandler(mockCtrl)
		evt := NewMockEvent(mockCtrl)
		lateEvt := NewMockEvent(mockCtrl)

		expectEvent(evt, 2.0, handler, false)
		expectEvent(lateEvt, 1.0, handler, false)

		handler.EXPECT().Handle(evt)

		engine.Schedule(evt)
		engine.Run()

		handle, err := engine.Schedule(lateEvt)

		Expect(err).To(MatchError(ErrInvalidDelay))
		Expect(handle).To(BeNil())
	})

	It("should allow scheduling at the current time", func() {
		handler := NewMockHandler(mockCtrl)
		evt := NewMockEvent(mockCtrl)
		sameTimeEvt := NewMockEvent(mockCtrl)

		expectEvent(evt, 2.0, handler, false)
		expectEvent(sameTimeEvt, 2.0, handler, false)

		handleEvt := handler.EXPECT().Handle(evt).Do(func(e Event) {
			_, err := engine.Schedule(sameTimeEvt)
			Expect(err).NotTo(HaveOccurred())
		})
		handler.EXPECT().Handle(sameTimeEvt).After(handleEvt)

		engine.Schedule(evt)

		engine.Run()
	})

	It("should not dispatch cancelled events", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := NewMockEvent(mockCtrl)
		evt2 := NewMockEvent(mockCtrl)

		expectEvent(evt1, 2.0, handler, false)
		expectEvent(evt2, 4.0, handler, false)

		handler.EXPECT().Handle(evt2)

		handle, err := engine.Schedule(evt1)
		Expect(err).NotTo(HaveOccurred())
		engine.Schedule(evt2)

		engine.Cancel(handle)

		Expect(handle.IsCancelled()).To(BeTrue())

		engine.Run()
	})

	It("should treat double cancel and nil cancel as no-ops", func() {
		handler := NewMockHandler(mockCtrl)
		evt := NewMockEvent(mockCtrl)

		expectEvent(evt, 2.0, handler, false)

		handle, _ := engine.Schedule(evt)

		engine.Cancel(handle)
		engine.Cancel(handle)
		engine.Cancel(nil)

		engine.Run()
	})

	It("should allow cancelling an already dispatched event", func() {
		handler := NewMockHandler(mockCtrl)
		evt := NewMockEvent(mockCtrl)

		expectEvent(evt, 2.0, handler, false)

		handler.EXPECT().Handle(evt)

		handle, _ := engine.Schedule(evt)

		engine.Run()

		engine.Cancel(handle)
	})

	It("should stop at the bound and keep later events pending", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := NewMockEvent(mockCtrl)
		evt2 := NewMockEvent(mockCtrl)
		evt3 := NewMockEvent(mockCtrl)

		expectEvent(evt1, 2.0, handler, false)
		expectEvent(evt2, 3.0, handler, false)
		expectEvent(evt3, 5.0, handler, false)

		handleEvt1 := handler.EXPECT().Handle(evt1)
		handler.EXPECT().Handle(evt2).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		err := engine.RunUntil(3.0)

		Expect(err).NotTo(HaveOccurred())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(3.0)))

		handler.EXPECT().Handle(evt3)

		err = engine.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5.0)))
	})

	It("should dispatch events exactly at the bound", func() {
		handler := NewMockHandler(mockCtrl)
		evt := NewMockEvent(mockCtrl)

		expectEvent(evt, 3.0, handler, false)

		handler.EXPECT().Handle(evt)

		engine.Schedule(evt)

		engine.RunUntil(3.0)
	})

	It("should invoke hooks around each event", func() {
		handler := NewMockHandler(mockCtrl)
		evt := NewMockEvent(mockCtrl)

		expectEvent(evt, 2.0, handler, false)
		handler.EXPECT().Handle(evt)

		positions := make([]*HookPos, 0)
		engine.AcceptHook(hookFunc(func(ctx HookCtx) {
			Expect(ctx.Domain).To(BeIdenticalTo(engine))
			Expect(ctx.Item).To(BeIdenticalTo(evt))
			positions = append(positions, ctx.Pos)
		}))

		engine.Schedule(evt)
		engine.Run()

		Expect(positions).To(Equal(
			[]*HookPos{HookPosBeforeEvent, HookPosAfterEvent}))
	})

	It("should invoke simulation end handlers on Finished", func() {
		endHandler := &recordingEndHandler{}
		engine.RegisterSimulationEndHandler(endHandler)

		handler := NewMockHandler(mockCtrl)
		evt := NewMockEvent(mockCtrl)
		expectEvent(evt, 2.0, handler, false)
		handler.EXPECT().Handle(evt)

		engine.Schedule(evt)
		engine.Run()
		engine.Finished()

		Expect(endHandler.calls).To(Equal(1))
		Expect(endHandler.lastTime).To(Equal(VTimeInSec(2.0)))
	})
})

type hookFunc func(ctx HookCtx)

func (f hookFunc) Func(ctx HookCtx) {
	f(ctx)
}

type recordingEndHandler struct {
	calls    int
	lastTime VTimeInSec
}

func (h *recordingEndHandler) Handle(now VTimeInSec) {
	h.calls++
	h.lastTime = now
}
