package logging

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// CommandWrapper wraps a CLI action with start/complete logging and a
// duration timing collected through LogData.
func CommandWrapper(
	commandName string,
	log *logrus.Logger,
	action func(c *cli.Context, logData *LogData) error,
) cli.ActionFunc {
	return func(c *cli.Context) error {
		logData := NewLogData(log)
		log.Infof("Command.%v.Start", commandName)

		endTimer := logData.AddTiming("duration")
		err := action(c, logData)
		endTimer()
		if err != nil {
			logData.Log().WithError(err).Errorf("Command.%v.Error", commandName)
			return err
		}

		logData.Log().Infof("Command.%v.Complete", commandName)
		return nil
	}
}
