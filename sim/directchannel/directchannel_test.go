package directchannel

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sensorlab/motesim/sim"
)

type arrival struct {
	dgram sim.Datagram
	time  sim.VTimeInSec
}

var _ = Describe("DirectChannel", func() {
	var (
		engine   *sim.SerialEngine
		channel  *Comp
		src, dst sim.EndpointAddress
		arrivals []arrival
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		channel = MakeBuilder().
			WithEngine(engine).
			WithDelay(0).
			Build("Channel")

		src = sim.NewNode("Sensor1").Endpoint("Out")
		dst = sim.NewNode("Gateway").Endpoint("In")

		arrivals = nil
		channel.RegisterReceiveHandler(dst,
			func(d sim.Datagram, now sim.VTimeInSec) {
				arrivals = append(arrivals, arrival{dgram: d, time: now})
			})
	})

	It("should deliver through the engine, not synchronously", func() {
		d := sim.Datagram{Src: src, Dst: dst, Payload: []byte("pH: 7.1")}

		sendErr := channel.Send(d)

		Expect(sendErr).To(BeNil())
		Expect(arrivals).To(BeEmpty())

		engine.Run()

		Expect(arrivals).To(HaveLen(1))
		Expect(arrivals[0].dgram.Src).To(Equal(src))
		Expect(arrivals[0].dgram.Payload).To(Equal([]byte("pH: 7.1")))
	})

	It("should apply the propagation delay", func() {
		channel = MakeBuilder().
			WithEngine(engine).
			WithDelay(0.5).
			Build("Channel")
		channel.RegisterReceiveHandler(dst,
			func(d sim.Datagram, now sim.VTimeInSec) {
				arrivals = append(arrivals, arrival{dgram: d, time: now})
			})

		sendErr := channel.Send(sim.Datagram{Src: src, Dst: dst})

		Expect(sendErr).To(BeNil())

		engine.Run()

		Expect(arrivals).To(HaveLen(1))
		Expect(arrivals[0].time).To(Equal(sim.VTimeInSec(0.5)))
	})

	It("should reject an unknown destination", func() {
		unknown := sim.EndpointAddress("Nowhere.In")

		sendErr := channel.Send(sim.Datagram{Src: src, Dst: unknown})

		Expect(sendErr).NotTo(BeNil())
		Expect(sendErr.Error()).To(Equal("destination unreachable"))
	})

	It("should reject sends from a closed source", func() {
		channel.CloseEndpoint(src)

		sendErr := channel.Send(sim.Datagram{Src: src, Dst: dst})

		Expect(sendErr).NotTo(BeNil())
		Expect(sendErr.Error()).To(Equal("source endpoint closed"))
	})

	It("should reject sends to a closed destination", func() {
		channel.CloseEndpoint(dst)

		sendErr := channel.Send(sim.Datagram{Src: src, Dst: dst})

		Expect(sendErr).NotTo(BeNil())
		Expect(sendErr.Error()).To(Equal("destination endpoint closed"))
	})

	It("should drop datagrams in flight to a closed destination", func() {
		sendErr := channel.Send(sim.Datagram{Src: src, Dst: dst})
		Expect(sendErr).To(BeNil())

		channel.CloseEndpoint(dst)

		engine.Run()

		Expect(arrivals).To(BeEmpty())
	})

	It("should replace the handler on re-registration", func() {
		var replaced []sim.Datagram
		channel.RegisterReceiveHandler(dst,
			func(d sim.Datagram, now sim.VTimeInSec) {
				replaced = append(replaced, d)
			})

		channel.Send(sim.Datagram{Src: src, Dst: dst})
		engine.Run()

		Expect(arrivals).To(BeEmpty())
		Expect(replaced).To(HaveLen(1))
	})

	It("should reopen a closed endpoint on re-registration", func() {
		channel.CloseEndpoint(dst)
		channel.RegisterReceiveHandler(dst,
			func(d sim.Datagram, now sim.VTimeInSec) {
				arrivals = append(arrivals, arrival{dgram: d, time: now})
			})

		sendErr := channel.Send(sim.Datagram{Src: src, Dst: dst})

		Expect(sendErr).To(BeNil())
	})

	It("should fire a hook when a send is rejected", func() {
		var reasons []string
		channel.AcceptHook(hookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos == sim.HookPosChannelSendFail {
				reasons = append(reasons, ctx.Detail.(string))
			}
		}))

		channel.CloseEndpoint(src)
		channel.Send(sim.Datagram{Src: src, Dst: dst})

		Expect(reasons).To(Equal([]string{"source endpoint closed"}))
	})

	It("should fire a hook on each delivery", func() {
		delivered := 0
		channel.AcceptHook(hookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos == sim.HookPosChannelDeliver {
				delivered++
			}
		}))

		channel.Send(sim.Datagram{Src: src, Dst: dst})
		channel.Send(sim.Datagram{Src: src, Dst: dst})
		engine.Run()

		Expect(delivered).To(Equal(2))
	})
})

type hookFunc func(ctx sim.HookCtx)

func (f hookFunc) Func(ctx sim.HookCtx) {
	f(ctx)
}
