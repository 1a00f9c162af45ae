// Package loop schedules game ticks.
//
// A Scheduler owns a single ticker whose period is one second divided by the
// current speed. Pausing drops the ticker, and changing speed stops the old
// ticker before starting a new one, so two tick sources never run together.
//
// Usage:
//
//	sched := loop.NewScheduler(8)
//	sched.Start()
//	for {
//		select {
//		case <-sched.C():
//			result := gameEngine.Tick()
//			if result.Rescheduled {
//				sched.Reschedule(gameEngine.GetSpeed())
//			}
//		case <-ctx.Done():
//			sched.Pause()
//			return
//		}
//	}
package loop
