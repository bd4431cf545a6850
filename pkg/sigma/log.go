package sigma

import "github.com/sirupsen/logrus"

// Logger receives the diagnostics of failed verifications.
var Logger *logrus.Logger = logrus.StandardLogger()
