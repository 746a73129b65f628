package logger_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/relloyd/lakepipe/logger"
)

var _ = Describe("Logger", func() {
	var (
		log       *logger.LoggerImpl
		logOutput *bytes.Buffer
	)

	decode := func() map[string]interface{} {
		var actual map[string]interface{}
		Expect(json.Unmarshal(logOutput.Bytes(), &actual)).To(Succeed())
		return actual
	}

	BeforeEach(func() {
		log = logger.NewJSONLogger("test-service", "debug", true)
		logOutput = bytes.NewBufferString("")
		log.SetOutput(logOutput)
	})

	It("Should have `test-service` as service name", func() {
		log.Info("Testing")
		Expect(decode()["service"]).To(Equal("test-service"))
	})

	It("Should have info as log level", func() {
		log.Info("Testing")
		Expect(decode()["level"]).To(Equal("info"))
	})

	It("Should have warn as log level", func() {
		log.Warn("Testing")
		Expect(decode()["level"]).To(Equal("warning"))
	})

	It("Should have error as log level with a stack trace", func() {
		log.Error("Testing")
		actual := decode()
		Expect(actual["level"]).To(Equal("error"))
		Expect(actual["stackTrace"]).ToNot(BeNil())
	})

	It("Should have `Testing` as msg", func() {
		log.Info("Testing")
		Expect(decode()["msg"]).To(Equal("Testing"))
	})

	It("Should carry fields added with WithField", func() {
		log.WithField("table", "A").Info("Testing")
		actual := decode()
		Expect(actual["table"]).To(Equal("A"))
		Expect(actual["service"]).To(Equal("test-service"))
	})

	It("Should not log debug records at info level", func() {
		quiet := logger.NewJSONLogger("test-service", "info", false)
		quiet.SetOutput(logOutput)
		quiet.Debug("hidden")
		Expect(logOutput.Len()).To(Equal(0))
	})
})
