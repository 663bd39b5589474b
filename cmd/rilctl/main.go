// rilctl is a command line front end for the ril package, exercising its
// adapters against a real modem. It replaces the small single-purpose
// examples this driver used to ship (one each for modem info, SMS send,
// SMS receive, a phonebook dump and USSD) with one binary whose
// subcommands are info, send, recv and dial; there is no phonebook or
// USSD subcommand.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ril-go/ril"
	"github.com/ril-go/ril/at"
	"github.com/ril-go/ril/serial"
	"github.com/ril-go/ril/trace"
)

var version = "undefined"

func main() {
	dev := flag.String("d", "/dev/ttyUSB0", "path to modem device")
	baud := flag.Int("b", 115200, "baud rate")
	timeout := flag.Duration("t", 5*time.Second, "command timeout period")
	verbose := flag.Bool("v", false, "log modem interactions")
	vsn := flag.Bool("version", false, "report version and exit")
	flag.Parse()
	if *vsn {
		fmt.Printf("%s %s\n", os.Args[0], version)
		os.Exit(0)
	}
	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("usage: rilctl [-d dev] [-b baud] <info|send|recv|dial> ...")
	}

	m, err := serial.New(serial.WithPort(*dev), serial.WithBaud(*baud))
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()
	var mio io.ReadWriter = m
	if *verbose {
		mio = trace.New(m)
	}

	d := ril.New(mio, ril.WithLogger(zap.NewNop()))
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := d.Open(ctx, at.DefaultLifecycleConfig()); err != nil {
		log.Fatal(err)
	}

	switch args[0] {
	case "info":
		runInfo(ctx, d)
	case "send":
		runSend(ctx, d, args[1:])
	case "recv":
		runRecv(ctx, d)
	case "dial":
		runDial(ctx, d, args[1:])
	default:
		log.Fatalf("unknown subcommand %q", args[0])
	}
}

func runInfo(ctx context.Context, d *ril.Device) {
	imei, err := d.IMEI(ctx)
	fmt.Printf("IMEI: %s (%v)\n", imei, err)
	model, err := d.Model(ctx)
	fmt.Printf("Model: %s (%v)\n", model, err)
	fw, err := d.FirmwareVersion(ctx)
	fmt.Printf("Firmware: %s (%v)\n", fw, err)
	reg, err := d.RegistrationStatus(ctx)
	fmt.Printf("Registration: %+v (%v)\n", reg, err)
	sim, err := d.SIMStatus(ctx)
	fmt.Printf("SIM: %v (%v)\n", sim, err)
}

func runSend(ctx context.Context, d *ril.Device, args []string) {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	num := fs.String("n", "+12345", "number to send to, in international format")
	msg := fs.String("m", "Zoot Zoot", "the message to send")
	fs.Parse(args)
	mr, err := d.SendSMS(ctx, *num, *msg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("sent, mr:", mr)
}

func runRecv(ctx context.Context, d *ril.Device) {
	ch, err := d.IncomingSMS(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("waiting for incoming SMS...")
	for idx := range ch {
		msg, err := d.ReadSMS(ctx, idx)
		if err != nil {
			log.Println("read failed:", err)
			continue
		}
		fmt.Printf("from %s: %s\n", msg.From.Number, msg.Text)
		if err := d.DeleteSMS(ctx, idx); err != nil {
			log.Println("delete failed:", err)
		}
	}
}

func runDial(ctx context.Context, d *ril.Device, args []string) {
	fs := flag.NewFlagSet("dial", flag.ExitOnError)
	num := fs.String("n", "", "number to dial")
	fs.Parse(args)
	if *num == "" {
		log.Fatal("dial requires -n")
	}
	if err := d.Dial(ctx, *num); err != nil {
		log.Fatal(err)
	}
	fmt.Println("dialing", *num)
}
