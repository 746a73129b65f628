package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"reflect"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var lakepipeHomeDir string

// Main is the optional user config file, ~/.lakepipe/config.yaml.
var Main *File

func init() {
	Main = NewConfigFileWithDir(mustGetConfigHomeDir(), MainFileFullName)
}

const (
	MainDir            = ".lakepipe"
	MainFileNamePrefix = "config"
	MainFileNameExt    = "yaml"
	MainFileFullName   = MainFileNamePrefix + "." + MainFileNameExt
)

// KeyNotFoundError is returned by Get when the file has no value for key.
type KeyNotFoundError struct {
	configFile string
	key        string
}

func (k KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in config file %q", k.key, k.configFile)
}

// File is a yaml file of simple key: value pairs.
type File struct {
	Dirname      string
	FileName     string
	FullPath     string
	data         map[string]interface{}
	dataIsLoaded bool
	mu           sync.Mutex
}

func NewConfigFileWithDir(dirName string, filename string) *File {
	c := &File{Dirname: dirName, FileName: filename}
	c.FullPath = path.Join(dirName, filename)
	c.data = make(map[string]interface{})
	return c
}

// Get will fetch the key from the config File into variable, out.
// Return KeyNotFoundError if we can't find the key; a missing file counts as an empty one.
func (c *File) Get(key string, out interface{}) error {
	val := reflect.ValueOf(out)
	if val.Kind() != reflect.Ptr {
		return errors.New("out must be a pointer")
	}
	if err := c.load(); err != nil {
		return err
	}
	d, ok := c.data[key]
	if !ok { // if the key was not found...
		return KeyNotFoundError{c.FullPath, key}
	}
	if err := mapstructure.WeakDecode(d, out); err != nil {
		return errors.Wrapf(err, "error decoding key %v from config file %v", key, c.FullPath)
	}
	return nil
}

func (c *File) load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dataIsLoaded {
		return nil
	}
	b, err := ioutil.ReadFile(c.FullPath)
	if os.IsNotExist(err) { // if there is no config file...
		c.dataIsLoaded = true
		return nil
	} else if err != nil {
		return errors.Wrapf(err, "error reading config file %v", c.FullPath)
	}
	if err = yaml.Unmarshal(b, &c.data); err != nil {
		return errors.Wrapf(err, "error parsing config file %v", c.FullPath)
	}
	c.dataIsLoaded = true
	return nil
}
