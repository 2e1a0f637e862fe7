// Package scope measures how long a region of code takes to run and reports the result as debug
// log lines.
//
// A Measure is created when the region is entered and ended when it is left. Pairing the two with
// defer guarantees that the final measurement is emitted on every exit path:
//
//	func loadFeeds(logger log.Logger) error {
//		m := scope.New("loadFeeds", logger)
//		defer m.End()
//
//		if err := readConfig(); err != nil {
//			return err
//		}
//		m.Stopover("read-config")
//
//		...
//	}
//
// Stopovers report the time since the previous stopover (or since the Measure was created); End
// reports the total time since the Measure was created.
package scope
