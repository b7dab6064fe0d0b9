package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sensepost/mapidecode/mapi"
	"github.com/sensepost/mapidecode/utils"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

//globals
var config utils.YamlConfig

var inputFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "hex,x",
		Value: "",
		Usage: "The property value as hex, e.g. copied from MFCMAPI",
	},
	cli.StringFlag{
		Name:  "file,f",
		Value: "",
		Usage: "A file holding the raw property value",
	},
}

// readInput returns the raw bytes supplied with --hex or --file
func readInput(c *cli.Context) ([]byte, error) {
	if c.String("hex") != "" && c.String("file") != "" {
		return nil, fmt.Errorf("Use either --hex or --file, not both")
	}
	if c.String("hex") != "" {
		return utils.DecodeHex(c.String("hex"))
	}
	if c.String("file") != "" {
		return utils.ReadFile(c.String("file"))
	}
	return nil, fmt.Errorf("A property value is required. Use --hex or --file")
}

// printValue writes a decoded structure to stdout in the configured format
func printValue(name string, v interface{}) error {
	if config.Output == "text" {
		fmt.Printf("%s: %+v\n", name, v)
		return nil
	}
	out, err := yaml.Marshal(map[string]interface{}{name: v})
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

// entryIDValue pairs an EntryID with its variant name for output
func entryIDValue(id mapi.EntryID) map[string]interface{} {
	return map[string]interface{}{
		"kind":     mapi.KindName(id),
		"provider": id.Provider(),
		"value":    id,
	}
}

func decodeEntryID(c *cli.Context) error {
	buf, err := readInput(c)
	if err != nil {
		return err
	}
	id, err := mapi.ParseEntryID(buf)
	if err != nil {
		return err
	}
	utils.Trace.Printf("Decoded %d byte %s EntryID\n", len(buf), mapi.KindName(id))
	return printValue("entryid", entryIDValue(id))
}

func decodeWrapped(c *cli.Context) error {
	buf, err := readInput(c)
	if err != nil {
		return err
	}
	w, err := mapi.ParseWrappedEntryID(buf)
	if err != nil {
		return err
	}
	utils.Trace.Printf("Wrapped EntryID type %s, email index %d\n", w.Kind(), w.EmailIndex())
	return printValue("wrapped", map[string]interface{}{
		"type":       w.Kind().String(),
		"emailindex": w.EmailIndex(),
		"embedded":   entryIDValue(w.Embedded),
	})
}

func decodeTemplate(c *cli.Context) error {
	buf, err := readInput(c)
	if err != nil {
		return err
	}
	rs, err := mapi.ParseRowSet(buf, c.Bool("unicode") || config.UnicodeTemplates)
	if err != nil {
		return err
	}
	utils.Trace.Printf("Template holds %d controls\n", rs.Count)
	return printValue("template", rs)
}

func decodeDistList(c *cli.Context) error {
	buf, err := readInput(c)
	if err != nil {
		return err
	}
	dl, err := mapi.ParseDistListStream(buf)
	if err != nil {
		return err
	}
	utils.Trace.Printf("Distribution list with %d members, written by build 0x%08X\n", dl.CountOfEntries, dl.BuildVersion)
	return printValue("distlist", dl)
}

func decodeBusinessCard(c *cli.Context) error {
	buf, err := readInput(c)
	if err != nil {
		return err
	}
	bc, err := mapi.ParseBusinessCard(buf)
	if err != nil {
		return err
	}
	utils.Trace.Printf("Business card version %d.%d with %d fields\n", bc.MajorVersion, bc.MinorVersion, bc.CountOfFields)
	return printValue("businesscard", bc)
}

// decodeProperties decodes every known binary property found in a property dump
func decodeProperties(c *cli.Context) error {
	dump := config
	if c.String("file") != "" {
		var err error
		if dump, err = utils.ReadYml(c.String("file")); err != nil {
			utils.Error.Println("Invalid property dump.")
			return err
		}
	}
	if len(dump.Properties) == 0 {
		return fmt.Errorf("No properties found. Supply a dump with --file or properties in --config")
	}
	bag, err := mapi.LoadPropertyBag(dump.Properties)
	if err != nil {
		return err
	}
	utils.Info.Printf("Loaded %d properties\n", len(dump.Properties))

	unicode := c.Bool("unicode") || config.UnicodeTemplates || dump.UnicodeTemplates
	skip := c.Bool("skip-invalid")
	decoded := map[string]interface{}{}
	var failed int

	// report records a decoded value, or decides what a failure means
	report := func(name string, v interface{}, err error) {
		switch {
		case err == nil:
			decoded[name] = v
		case errors.Is(err, mapi.ErrPropertyNotFound):
			utils.Debug.Printf("%s not present\n", name)
		case skip:
			mapi.Optional(v, err)
			utils.Warning.Printf("Skipping %s\n", name)
		default:
			utils.Error.Printf("Failed to decode %s: %s\n", name, err)
			failed++
		}
	}

	entryIDTags := map[string]mapi.PropertyTag{
		"PidTagEntryId":                 mapi.PidTagEntryID,
		"PidTagParentEntryId":           mapi.PidTagParentEntryID,
		"PidTagSentRepresentingEntryId": mapi.PidTagSentRepresentingEntryID,
		"PidTagReceivedByEntryId":       mapi.PidTagReceivedByEntryID,
		"PidTagSenderEntryId":           mapi.PidTagSenderEntryID,
	}
	for name, tag := range entryIDTags {
		id, err := mapi.EntryIDProperty(bag, tag)
		if err != nil {
			report(name, nil, err)
			continue
		}
		report(name, entryIDValue(id), nil)
	}

	rs, err := mapi.TemplateData(bag, unicode)
	report("PidTagTemplateData", rs, err)
	dl, err := mapi.DistributionListStream(bag)
	report("PidLidDistributionListStream", dl, err)
	members, err := mapi.DistributionListMembers(bag)
	report("PidLidDistributionListMembers", members, err)
	oneOffs, err := mapi.DistributionListOneOffMembers(bag)
	report("PidLidDistributionListOneOffMembers", oneOffs, err)
	bc, err := mapi.BusinessCard(bag)
	report("PidLidBusinessCardDisplayDefinition", bc, err)

	if err := printValue("properties", decoded); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d properties failed to decode", failed)
	}
	return nil
}

// run wraps an action so failures are logged and set the exit code
func run(action func(*cli.Context) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		if err := action(c); err != nil {
			utils.Error.Println(err)
			return cli.NewExitError("", 1)
		}
		return nil
	}
}

func main() {

	app := cli.NewApp()

	app.Name = "mapidecode"
	app.Usage = "Decode binary MAPI property values"
	app.Version = "1.0.0"
	app.Description = `Decodes EntryIDs, address book dialog templates, personal
distribution list streams and business card layouts from raw
PtypBinary property values.`

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Value: "",
			Usage: "The path to a config file to use",
		},
		cli.StringFlag{
			Name:  "output,o",
			Value: "",
			Usage: "Output format, yaml or text",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Be verbose and show some of the inner workings",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Be print debug info",
		},
	}

	app.Before = func(c *cli.Context) error {
		utils.Configure(os.Stderr, c.Bool("verbose"), c.Bool("debug"))

		if c.GlobalString("config") != "" {
			var err error
			if config, err = utils.ReadYml(c.GlobalString("config")); err != nil {
				utils.Error.Println("Invalid Config file.")
				return err
			}
		}
		//cmdline overrides the config file
		if c.GlobalString("output") != "" {
			config.Output = c.GlobalString("output")
		}
		if config.Output != "" && config.Output != "yaml" && config.Output != "text" {
			return cli.NewExitError("Unknown output format. Use yaml or text", 1)
		}
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:    "entryid",
			Aliases: []string{"e"},
			Usage:   "Decode an EntryID of any kind",
			Flags:   inputFlags,
			Action:  run(decodeEntryID),
		},
		{
			Name:   "wrapped",
			Usage:  "Decode a wrapped EntryID, as found in PidLidDistributionListMembers",
			Flags:  inputFlags,
			Action: run(decodeWrapped),
		},
		{
			Name:  "template",
			Usage: "Decode an address book dialog template (PidTagTemplateData)",
			Flags: append([]cli.Flag{
				cli.BoolFlag{
					Name:  "unicode",
					Usage: "Template strings are UTF-16",
				},
			}, inputFlags...),
			Action: run(decodeTemplate),
		},
		{
			Name:   "distlist",
			Usage:  "Decode a personal distribution list stream (PidLidDistributionListStream)",
			Flags:  inputFlags,
			Action: run(decodeDistList),
		},
		{
			Name:   "businesscard",
			Usage:  "Decode a business card layout (PidLidBusinessCardDisplayDefinition)",
			Flags:  inputFlags,
			Action: run(decodeBusinessCard),
		},
		{
			Name:  "props",
			Usage: "Decode every known binary property in a property dump",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file,f",
					Value: "",
					Usage: "A YAML property dump. Defaults to the properties in --config",
				},
				cli.BoolFlag{
					Name:  "unicode",
					Usage: "Template strings are UTF-16",
				},
				cli.BoolFlag{
					Name:  "skip-invalid",
					Usage: "Treat properties that fail to decode as absent",
				},
			},
			Action: run(decodeProperties),
		},
	}

	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}

	app.Run(os.Args)

}
