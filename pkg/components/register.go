package components

import "github.com/go-drift/reactive/pkg/core"

// Registrations lists every component in this package.
func Registrations() []core.Registration {
	return []core.Registration{
		{Tag: CounterTag, Description: "increment and decrement a count", Factory: func() core.Component { return &Counter{} }},
		{Tag: RatingTag, Description: "thumbs up/down rating with reflected vote", Factory: func() core.Component { return &Rating{} }},
		{Tag: CarouselTag, Description: "story viewer with clamped navigation", Factory: func() core.Component { return &Carousel{} }},
		{Tag: ClockTag, Description: "clock ticking from its own timer", Factory: func() core.Component { return &Clock{} }},
		{Tag: ControllerClockTag, Description: "clock driven by a ClockController", Factory: func() core.Component { return &ControllerClock{} }},
		{Tag: StepButtonTag, Description: "button that reports a step", Factory: func() core.Component { return &StepButton{} }},
		{Tag: StepCounterTag, Description: "counter summing step buttons", Factory: func() core.Component { return &StepCounter{} }},
		{Tag: TodoTag, Description: "todo list with finished totals", Factory: func() core.Component { return &TodoApp{} }},
	}
}

// Register adds every component to r.
func Register(r *core.Registry) error {
	for _, reg := range Registrations() {
		if err := r.Register(reg); err != nil {
			return err
		}
	}
	return nil
}
