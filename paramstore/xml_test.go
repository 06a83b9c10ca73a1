package paramstore

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestLoadFileMissingReturnsEmptyMap(t *testing.T) {
	am, err := LoadFile(filepath.Join(t.TempDir(), "does_not_exist.xml"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(am), test.ShouldEqual, 0)
}

func TestLoadFileInfersTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "costmap.xml")
	contents := `<parameters>
  <param name="track_unknown_space" value="true"/>
  <param name="map_update_frequency" value="1.0"/>
  <param name="inflation_radius" value="0.55"/>
  <param name="name" value="static"/>
</parameters>`
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)

	am, err := LoadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, am.GetBool("track_unknown_space", false), test.ShouldBeTrue)
	test.That(t, am.GetFloat64("map_update_frequency", 0), test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, am.GetFloat64("inflation_radius", 0), test.ShouldAlmostEqual, 0.55, 1e-9)
	test.That(t, am.GetString("name", ""), test.ShouldEqual, "static")
}

func TestLoadFileRejectsMalformedXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xml")
	test.That(t, os.WriteFile(path, []byte("<parameters><param"), 0o600), test.ShouldBeNil)

	_, err := LoadFile(path)
	test.That(t, err, test.ShouldNotBeNil)
}
